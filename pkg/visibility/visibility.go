// Package visibility decides whether a conditionally displayed field is shown,
// given the current values of its siblings. A hidden field is excluded from
// validation and submission, not merely disabled.
package visibility

// Condition shows a field only while the field named DependsOn holds ShowWhen.
// ShowWhen may be a scalar or a list of accepted values.
type Condition struct {
	DependsOn string `json:"dependsOn" yaml:"dependsOn"`
	ShowWhen  any    `json:"showWhen" yaml:"showWhen"`
}

// Empty reports whether the condition constrains anything.
func (c *Condition) Empty() bool {
	return c == nil || c.DependsOn == ""
}

// Evaluator determines whether a field should be visible based on its
// condition and the current values.
type Evaluator interface {
	Eval(fieldPath string, cond Condition, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the sibling values of
// the form being evaluated; Extras lets callers inject additional context such
// as the active mode or feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath string, cond Condition, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath string, cond Condition, ctx Context) (bool, error) {
	return fn(fieldPath, cond, ctx)
}
