package metadata

import (
	"math"
	"reflect"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// shape captures the value contract of a PropertyType.
type shape struct {
	kind     PropertyType
	expected string
	// missing reports values that count as absent for required checks beyond
	// the shared nil/"" test.
	missing func(any) bool
	// conforms is only consulted when strict shape checking is enabled.
	conforms func(any) bool
}

var unknownShape = &shape{
	expected: "a value",
	missing:  func(any) bool { return false },
	conforms: func(any) bool { return true },
}

var (
	stringShape = &shape{
		kind:     TypeString,
		expected: "a string",
		missing:  func(any) bool { return false },
		conforms: isString,
	}
	numberShape = &shape{
		kind:     TypeNumber,
		expected: "a finite number",
		missing:  isNaN,
		conforms: isFiniteNumber,
	}
	booleanShape = &shape{
		kind:     TypeBoolean,
		expected: "a boolean",
		missing:  func(any) bool { return false },
		conforms: func(v any) bool { _, ok := v.(bool); return ok },
	}
	arrayShape = &shape{
		kind:     TypeArray,
		expected: "a list",
		missing:  func(any) bool { return false },
		conforms: isSlice,
	}
	enumShape = &shape{
		kind:     TypeEnum,
		expected: "one of the declared options",
		missing:  func(any) bool { return false },
		conforms: isString,
	}
	objectShape = &shape{
		kind:     TypeObject,
		expected: "an object",
		missing:  func(any) bool { return false },
		conforms: func(v any) bool { _, ok := asTree(v); return ok },
	}
	tagsShape = &shape{
		kind:     TypeTags,
		expected: "a list of strings",
		missing:  func(any) bool { return false },
		conforms: isStringSlice,
	}
)

func shapeOf(t PropertyType) *shape {
	switch t {
	case TypeString:
		return stringShape
	case TypeNumber:
		return numberShape
	case TypeBoolean:
		return booleanShape
	case TypeArray:
		return arrayShape
	case TypeEnum:
		return enumShape
	case TypeObject:
		return objectShape
	case TypeTags:
		return tagsShape
	default:
		return unknownShape
	}
}

// IsMissing applies the required-ness test: nil, absent and "" are missing for
// every type; NUMBER additionally treats NaN as missing.
func IsMissing(t PropertyType, value any) bool {
	if isEmpty(value) {
		return true
	}
	return shapeOf(t).missing(value)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNaN(v any) bool {
	switch n := v.(type) {
	case float64:
		return math.IsNaN(n)
	case float32:
		return math.IsNaN(float64(n))
	default:
		return false
	}
}

func isFiniteNumber(v any) bool {
	f, ok := validation.ToFloat(v)
	return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
}


func isSlice(v any) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func isStringSlice(v any) bool {
	switch items := v.(type) {
	case []string:
		return true
	case []any:
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asTree(v any) (ValueTree, bool) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, true
	default:
		return nil, false
	}
}
