package metadata

import (
	"fmt"
	"strings"
)

// PropertyType is the closed vocabulary of metadata property kinds.
type PropertyType string

const (
	TypeString  PropertyType = "STRING"
	TypeNumber  PropertyType = "NUMBER"
	TypeBoolean PropertyType = "BOOLEAN"
	TypeArray   PropertyType = "ARRAY"
	TypeEnum    PropertyType = "ENUM"
	TypeObject  PropertyType = "OBJECT"
	TypeTags    PropertyType = "TAGS"
)

// PropertyTypes lists every supported type in declaration order.
func PropertyTypes() []PropertyType {
	return []PropertyType{TypeString, TypeNumber, TypeBoolean, TypeArray, TypeEnum, TypeObject, TypeTags}
}

// ParsePropertyType normalises a raw type tag. Matching is case-insensitive.
func ParsePropertyType(raw string) (PropertyType, error) {
	candidate := PropertyType(strings.ToUpper(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return "", fmt.Errorf("metadata: unknown property type %q", raw)
	}
	return candidate, nil
}

// Valid reports whether t belongs to the vocabulary.
func (t PropertyType) Valid() bool {
	return shapeOf(t) != unknownShape
}

// SpecProperty is one node of a metadata specification. Properties is only
// meaningful when Type is OBJECT.
type SpecProperty struct {
	Name         string         `json:"name" yaml:"name"`
	DisplayName  string         `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Type         PropertyType   `json:"type" yaml:"type"`
	Required     bool           `json:"required" yaml:"required"`
	Placeholder  string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DefaultValue any            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Properties   []SpecProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Label returns the human readable name used in messages.
func (p SpecProperty) Label() string {
	if label := strings.TrimSpace(p.DisplayName); label != "" {
		return label
	}
	return p.Name
}

// HasChildren reports whether p is an OBJECT carrying nested properties.
func (p SpecProperty) HasChildren() bool {
	return p.Type == TypeObject && len(p.Properties) > 0
}

// HasDefault reports whether the spec declares a usable default value.
func (p SpecProperty) HasDefault() bool {
	return p.DefaultValue != nil
}

// MetadataSpec is the root of a property tree, looked up by ID.
type MetadataSpec struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	Properties []SpecProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Unconstrained reports whether the spec places no constraints on values.
func (s *MetadataSpec) Unconstrained() bool {
	return s == nil || len(s.Properties) == 0
}

// ValueTree maps property names to values. OBJECT slots hold nested trees.
type ValueTree = map[string]any
