package resource

import (
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

// Mode selects which validation groups apply.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// ParseMode validates a raw mode string.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeCreate:
		return ModeCreate, true
	case ModeUpdate:
		return ModeUpdate, true
	default:
		return "", false
	}
}

// Directive is a per-mode validation group constraint.
type Directive string

const (
	DirectiveNone    Directive = ""
	DirectiveNotNull Directive = "notNull"
	DirectiveNull    Directive = "null"
)

// ValidationGroups carries the per-mode directives of a field. Insert and
// Create both apply to create mode.
type ValidationGroups struct {
	Insert Directive `json:"insert,omitempty" yaml:"insert,omitempty"`
	Create Directive `json:"create,omitempty" yaml:"create,omitempty"`
	Update Directive `json:"update,omitempty" yaml:"update,omitempty"`
}

// FieldType is the declared scalar kind of a field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
)

// IDField is the server-assigned identifier, hidden when creating and never
// required.
const IDField = "id"

// FieldSchema describes one field of a resource.
type FieldSchema struct {
	Name                  string                `json:"name" yaml:"name"`
	Label                 string                `json:"label,omitempty" yaml:"label,omitempty"`
	Type                  FieldType             `json:"type" yaml:"type"`
	IsArray               bool                  `json:"isArray,omitempty" yaml:"isArray,omitempty"`
	IsMap                 bool                  `json:"isMap,omitempty" yaml:"isMap,omitempty"`
	EnumValues            []string              `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	Pattern               string                `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Required              bool                  `json:"required,omitempty" yaml:"required,omitempty"`
	ValidationGroups      *ValidationGroups     `json:"validationGroups,omitempty" yaml:"validationGroups,omitempty"`
	ConditionalVisibility *visibility.Condition `json:"conditionalVisibility,omitempty" yaml:"conditionalVisibility,omitempty"`
}

// DisplayLabel returns the label used in messages.
func (f FieldSchema) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

func (f FieldSchema) groups() ValidationGroups {
	if f.ValidationGroups == nil {
		return ValidationGroups{}
	}
	return *f.ValidationGroups
}
