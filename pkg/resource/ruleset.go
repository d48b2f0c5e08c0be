package resource

import (
	"errors"
	"fmt"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

// Entry binds a visible field to its rule.
type Entry struct {
	Field    FieldSchema
	Rule     Rule
	Required bool
}

// Refinement inspects the submission form of the visible values and reports
// additional issues, typically cross-field or range constraints.
type Refinement func(values map[string]any) []validation.Issue

// Ruleset is the validation schema of a resource in one mode.
type Ruleset struct {
	mode        Mode
	entries     []Entry
	refinements []Refinement
	evaluator   visibility.Evaluator
}

// Mode returns the mode the ruleset was built for.
func (rs *Ruleset) Mode() Mode {
	return rs.mode
}

// Entries returns the fields carried by the ruleset in declaration order.
func (rs *Ruleset) Entries() []Entry {
	return append([]Entry(nil), rs.entries...)
}

// Rule returns the rule attached to a field.
func (rs *Ruleset) Rule(name string) (Rule, bool) {
	for _, entry := range rs.entries {
		if entry.Field.Name == name {
			return entry.Rule, true
		}
	}
	return nil, false
}

// Paths lists the field names covered by the ruleset.
func (rs *Ruleset) Paths() []string {
	out := make([]string, 0, len(rs.entries))
	for _, entry := range rs.entries {
		out = append(out, entry.Field.Name)
	}
	return out
}

// Visible returns the entries shown for the current values.
func (rs *Ruleset) Visible(values map[string]any) []Entry {
	out := make([]Entry, 0, len(rs.entries))
	for _, entry := range rs.entries {
		if rs.shown(entry.Field, values) {
			out = append(out, entry)
		}
	}
	return out
}

func (rs *Ruleset) shown(field FieldSchema, values map[string]any) bool {
	cond := field.ConditionalVisibility
	if cond.Empty() {
		return true
	}
	ok, err := rs.evaluator.Eval(field.Name, *cond, visibility.Context{
		Values: values,
		Extras: map[string]any{"mode": string(rs.mode)},
	})
	return err == nil && ok
}

// Validate checks values field by field, skipping hidden fields, then runs the
// refinements against the decoded values that passed. Errors are keyed by field name.
// Malformed JSON input is reported and left untouched in values.
func (rs *Ruleset) Validate(values map[string]any) validation.Result {
	var collector validation.Collector
	submission := make(map[string]any, len(rs.entries))

	for _, entry := range rs.Visible(values) {
		name := entry.Field.Name
		normalized, err := entry.Rule.Check(values[name])
		if err != nil {
			collector.Add(name, fmt.Sprintf("%s %s", entry.Field.DisplayLabel(), err.Error()))
			continue
		}
		if !isMissing(normalized) {
			submission[name] = normalized
		}
	}

	for _, refine := range rs.refinements {
		collector.AddIssues(refine(submission)...)
	}
	return collector.Result()
}

// Submission returns the payload to send: visible fields only, structured
// JSON strings decoded, and cleared optional fields dropped. Values that fail
// their rule are passed through unchanged.
func (rs *Ruleset) Submission(values map[string]any) map[string]any {
	out := make(map[string]any, len(rs.entries))
	for _, entry := range rs.Visible(values) {
		name := entry.Field.Name
		raw, present := values[name]
		if !present {
			continue
		}
		normalized, err := entry.Rule.Check(raw)
		switch {
		case err != nil:
			out[name] = raw
		case isMissing(normalized) && !entry.Required:
			continue
		default:
			out[name] = normalized
		}
	}
	return out
}

// IsMalformed reports whether the value of a structured field is a string that
// does not parse as JSON.
func IsMalformed(rule Rule, value any) bool {
	_, err := rule.Check(value)
	return errors.Is(err, ErrMalformedJSON)
}
