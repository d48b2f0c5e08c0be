package resource

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

// Option configures BuildValidationSchema.
type Option func(*Ruleset)

// WithEvaluator replaces the visibility evaluator used for conditional fields.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(rs *Ruleset) {
		if evaluator != nil {
			rs.evaluator = evaluator
		}
	}
}

// WithRefinement adds a ruleset-level check run after the per-field rules.
func WithRefinement(refinement Refinement) Option {
	return func(rs *Ruleset) {
		if refinement != nil {
			rs.refinements = append(rs.refinements, refinement)
		}
	}
}

// BuildValidationSchema synthesises the ruleset for fields in mode. Fields not
// visible in mode are left out entirely. An invalid pattern is reported as a
// field error whenever the field holds a value, instead of failing the build.
func BuildValidationSchema(fields []FieldSchema, mode Mode, opts ...Option) *Ruleset {
	rs := &Ruleset{
		mode:      mode,
		evaluator: visibility.Default,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(rs)
		}
	}

	for _, field := range fields {
		if strings.TrimSpace(field.Name) == "" || !IsVisible(field, mode) {
			continue
		}
		required := IsRequired(field, mode)
		base := RuleFor(field)

		var rule Rule
		if required {
			rule = Required{Inner: base}
		} else {
			rule = Optional{Inner: base}
		}
		rs.entries = append(rs.entries, Entry{
			Field:    field,
			Rule:     rule,
			Required: required,
		})
	}
	return rs
}

// RuleFor picks the base rule for a field, first match wins: enum, string
// list, special record list, structured value, pattern string, then the
// native scalar checks.
func RuleFor(field FieldSchema) Rule {
	if len(field.EnumValues) > 0 {
		return Enum{Values: append([]string(nil), field.EnumValues...), Multiple: field.IsArray}
	}
	if isStringList(field) {
		return StringList{}
	}
	if shape, ok := specialRecordShape(field); ok {
		return RecordList{Shape: shape}
	}
	if field.Type == FieldTypeObject || field.IsMap || field.IsArray {
		return Structured{List: field.IsArray}
	}

	switch field.Type {
	case FieldTypeString:
		if field.Pattern != "" {
			expr, err := regexp.Compile(field.Pattern)
			if err != nil {
				return invalidPattern{pattern: field.Pattern, err: err}
			}
			return Pattern{Expr: expr}
		}
		return String{}
	case FieldTypeNumber:
		return Number{}
	case FieldTypeInteger:
		return Number{Integer: true}
	case FieldTypeBoolean:
		return Boolean{}
	default:
		return Any{}
	}
}

func isStringList(field FieldSchema) bool {
	if field.IsArray && field.Type == FieldTypeString {
		return true
	}
	if field.Type != FieldTypeString && field.Type != "" && !field.IsArray {
		return false
	}
	name := strings.ToLower(field.Name)
	return name == "tags" || strings.HasSuffix(name, "tags")
}

func specialRecordShape(field FieldSchema) (RecordShape, bool) {
	name := strings.ToLower(field.Name)
	if name == "statuscodes" || strings.HasSuffix(name, "statuscodes") {
		return RecordStatusCode, true
	}
	if field.Type != FieldTypeObject && !field.IsArray {
		return "", false
	}
	switch name {
	case "headers", "params", "body":
		return RecordKeyValue, true
	default:
		return "", false
	}
}

// invalidPattern stands in for a Pattern whose expression does not compile.
type invalidPattern struct {
	pattern string
	err     error
}

func (invalidPattern) Kind() RuleKind { return RulePattern }
func (invalidPattern) sealed()        {}

func (p invalidPattern) Check(any) (any, error) {
	return nil, fmt.Errorf("has an invalid pattern %q: %v", p.pattern, p.err)
}
