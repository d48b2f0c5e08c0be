package feedback

import (
	"sort"
	"strconv"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// FormPath is the issue path used for form-level messages.
const FormPath = ""

// Mapping splits a server payload into field-level messages keyed by known
// dotted paths and form-level messages.
type Mapping struct {
	Fields map[string][]string
	Form   []string
}

// Empty reports whether the mapping carries any message.
func (m Mapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// Issues flattens the mapping, field paths in name order followed by the
// form-level messages.
func (m Mapping) Issues() []validation.Issue {
	paths := make([]string, 0, len(m.Fields))
	for path := range m.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var out []validation.Issue
	for _, path := range paths {
		for _, message := range m.Fields[path] {
			out = append(out, validation.Issue{Path: path, Message: message})
		}
	}
	for _, message := range m.Form {
		out = append(out, validation.Issue{Path: FormPath, Message: message})
	}
	return out
}

// MapErrorPayload resolves each payload key against the known paths. Keys may
// be JSON pointers ("/addr/zip"), bracketed ("addr[zip]") or JSONPath-like
// ("$.addr.zip"), optionally nested under a request wrapper such as "body".
// The longest known path prefix wins; list indexes are ignored.
func MapErrorPayload(paths []string, payload map[string][]string) Mapping {
	mapping := Mapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path = strings.TrimSpace(path); path != "" {
			known[path] = struct{}{}
		}
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		path, ok := resolve(key, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[path] = normalizeMessages(append(mapping.Fields[path], messages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// Merge combines a local validation result with server feedback. Local issues
// come first; a server message repeating a local one at the same path is
// dropped.
func Merge(local validation.Result, server Mapping) validation.Result {
	seen := make(map[validation.Issue]struct{}, len(local.Issues))
	for _, issue := range local.Issues {
		seen[issue] = struct{}{}
	}

	var collector validation.Collector
	collector.AddIssues(local.Issues...)
	for _, issue := range server.Issues() {
		if _, dup := seen[issue]; dup {
			continue
		}
		collector.Add(issue.Path, issue.Message)
	}
	return collector.Result()
}

// MergeFormMessages concatenates form-level messages, trimming blanks and
// duplicates while keeping order.
func MergeFormMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolve(key string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(key) {
		return "", false
	}
	segments := splitKey(key)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, variant := range variants(segments) {
		path := longestKnownPrefix(variant, known)
		if depth(path) > depth(best) {
			best = path
		}
	}
	return best, best != ""
}

func depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

func splitKey(key string) []string {
	clean := strings.TrimSpace(key)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "", "//", "/").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

var wrappers = map[string]struct{}{
	"body":    {},
	"request": {},
	"payload": {},
	"data":    {},
}

func variants(segments []string) [][]string {
	unwrapped := segments
	for len(unwrapped) > 0 {
		if _, ok := wrappers[strings.ToLower(unwrapped[0])]; !ok {
			break
		}
		unwrapped = unwrapped[1:]
	}
	return [][]string{
		segments,
		unwrapped,
		withoutIndexes(segments),
		withoutIndexes(unwrapped),
	}
}

func withoutIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
