package validation

import "strings"

// Issue represents a single validation failure at a dotted path.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result captures the outcome of a validation pass. Errors holds the first
// message recorded per path while Messages preserves every message in the
// order it was produced.
type Result struct {
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors,omitempty"`
	Messages []string          `json:"messages,omitempty"`
	Issues   []Issue           `json:"issues,omitempty"`
}

// Valid returns the result of a pass that found nothing to report.
func Valid() Result {
	return Result{Valid: true}
}

// Collector accumulates issues during a walk. The zero value is ready to use.
type Collector struct {
	issues []Issue
}

// Add records a message at path.
func (c *Collector) Add(path, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	c.issues = append(c.issues, Issue{Path: path, Message: message})
}

// AddIssues appends already built issues, keeping their order.
func (c *Collector) AddIssues(issues ...Issue) {
	for _, issue := range issues {
		c.Add(issue.Path, issue.Message)
	}
}

// Len reports how many issues were collected.
func (c *Collector) Len() int {
	return len(c.issues)
}

// Result freezes the collected issues.
func (c *Collector) Result() Result {
	return FromIssues(c.issues)
}

// FromIssues builds a Result from a list of issues.
func FromIssues(issues []Issue) Result {
	if len(issues) == 0 {
		return Valid()
	}
	result := Result{
		Errors:   make(map[string]string, len(issues)),
		Messages: make([]string, 0, len(issues)),
		Issues:   append([]Issue(nil), issues...),
	}
	for _, issue := range issues {
		if _, exists := result.Errors[issue.Path]; !exists {
			result.Errors[issue.Path] = issue.Message
		}
		result.Messages = append(result.Messages, issue.Message)
	}
	return result
}

// Merge combines results, keeping the issue order of the inputs.
func Merge(results ...Result) Result {
	var collector Collector
	for _, result := range results {
		collector.AddIssues(result.Issues...)
	}
	return collector.Result()
}

// ErrorAt returns the message recorded for path, if any.
func (r Result) ErrorAt(path string) (string, bool) {
	if len(r.Errors) == 0 {
		return "", false
	}
	msg, ok := r.Errors[path]
	return msg, ok
}

// Paths returns the failing paths in encounter order without duplicates.
func (r Result) Paths() []string {
	if len(r.Issues) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Issues))
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if _, ok := seen[issue.Path]; ok {
			continue
		}
		seen[issue.Path] = struct{}{}
		out = append(out, issue.Path)
	}
	return out
}
