package metadata

import (
	"fmt"
	"strconv"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// CloneTree deep copies a value tree. A nil tree yields an empty one.
func CloneTree(tree ValueTree) ValueTree {
	out := make(ValueTree, len(tree))
	for key, value := range tree {
		out[key] = Clone(value)
	}
	return out
}

// Clone deep copies maps and slices; other values are returned as is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneTree(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

// Get resolves a dotted path. Numeric segments index into lists.
func Get(tree ValueTree, path string) (any, bool) {
	segments := validation.SplitPath(path)
	if tree == nil || len(segments) == 0 {
		return nil, false
	}
	var current any = tree
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set returns a copy of tree with value stored at the dotted path. Maps along
// the path are copied rather than mutated, so trees previously handed out stay
// unchanged. Missing or non-map intermediate slots become empty maps.
func Set(tree ValueTree, path string, value any) (ValueTree, error) {
	segments := validation.SplitPath(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("metadata: empty path")
	}
	return setSegments(tree, segments, value), nil
}

func setSegments(tree ValueTree, segments []string, value any) ValueTree {
	out := make(ValueTree, len(tree)+1)
	for key, existing := range tree {
		out[key] = existing
	}
	head := segments[0]
	if len(segments) == 1 {
		out[head] = value
		return out
	}
	child, _ := asTree(out[head])
	out[head] = setSegments(child, segments[1:], value)
	return out
}

// Paths lists every dotted property path declared by spec in pre-order.
func Paths(spec *MetadataSpec) []string {
	if spec.Unconstrained() {
		return nil
	}
	var out []string
	collectPaths(spec.Properties, "", &out)
	return out
}

func collectPaths(props []SpecProperty, prefix string, out *[]string) {
	for _, prop := range props {
		path := validation.JoinPath(prefix, prop.Name)
		*out = append(*out, path)
		if prop.HasChildren() {
			collectPaths(prop.Properties, path, out)
		}
	}
}
