package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// RuleKind names a rule variant.
type RuleKind string

const (
	RuleEnum       RuleKind = "enum"
	RuleStringList RuleKind = "stringList"
	RuleRecordList RuleKind = "recordList"
	RuleStructured RuleKind = "structured"
	RulePattern    RuleKind = "pattern"
	RuleString     RuleKind = "string"
	RuleNumber     RuleKind = "number"
	RuleBoolean    RuleKind = "boolean"
	RuleAny        RuleKind = "any"
	RuleRequired   RuleKind = "required"
	RuleOptional   RuleKind = "optional"
)

// Rule checks a single present value. Check returns the value in its
// submission form (JSON strings for structured fields are decoded) or an
// error whose message completes the sentence "<label> ...".
//
// The set of variants is closed: every implementation lives in this file.
type Rule interface {
	Kind() RuleKind
	Check(value any) (any, error)
	sealed()
}

var errRequired = errors.New("is required")

// Required rejects missing values (nil, "" and NaN) before delegating.
type Required struct {
	Inner Rule
}

func (Required) Kind() RuleKind { return RuleRequired }
func (Required) sealed()        {}

func (r Required) Check(value any) (any, error) {
	if isMissing(value) {
		return nil, errRequired
	}
	return r.Inner.Check(value)
}

// Optional accepts missing values, including the "" a cleared input produces.
type Optional struct {
	Inner Rule
}

func (Optional) Kind() RuleKind { return RuleOptional }
func (Optional) sealed()        {}

func (o Optional) Check(value any) (any, error) {
	if isMissing(value) {
		return value, nil
	}
	return o.Inner.Check(value)
}

// Enum accepts one of a literal set, or a list of them when Multiple is set.
type Enum struct {
	Values   []string
	Multiple bool
}

func (Enum) Kind() RuleKind { return RuleEnum }
func (Enum) sealed()        {}

func (e Enum) Check(value any) (any, error) {
	if e.Multiple {
		items, ok := toSlice(value)
		if !ok {
			return nil, fmt.Errorf("must be a list of: %s", strings.Join(e.Values, ", "))
		}
		for _, item := range items {
			if !e.allows(item) {
				return nil, fmt.Errorf("must only contain: %s", strings.Join(e.Values, ", "))
			}
		}
		return value, nil
	}
	if !e.allows(value) {
		return nil, fmt.Errorf("must be one of: %s", strings.Join(e.Values, ", "))
	}
	return value, nil
}

func (e Enum) allows(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, candidate := range e.Values {
		if candidate == s {
			return true
		}
	}
	return false
}

// StringList accepts a list whose elements are all strings.
type StringList struct{}

func (StringList) Kind() RuleKind { return RuleStringList }
func (StringList) sealed()        {}

func (StringList) Check(value any) (any, error) {
	items, ok := toSlice(value)
	if !ok {
		return nil, errors.New("must be a list of strings")
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return nil, errors.New("must be a list of strings")
		}
	}
	return value, nil
}

// RecordShape names the element contract of a RecordList.
type RecordShape string

const (
	// RecordKeyValue elements are {"key": string, "value": string} pairs, used
	// by headers, params and body declarations.
	RecordKeyValue RecordShape = "keyValue"
	// RecordStatusCode elements are HTTP status codes.
	RecordStatusCode RecordShape = "statusCode"
)

// RecordList accepts a list of shape-specific records, given directly or as a
// JSON-encoded string.
type RecordList struct {
	Shape RecordShape
}

func (RecordList) Kind() RuleKind { return RuleRecordList }
func (RecordList) sealed()        {}

func (r RecordList) Check(value any) (any, error) {
	decoded, err := decodeStructured(value, shapeArray)
	if err != nil {
		return nil, err
	}
	items, _ := toSlice(decoded)
	for idx, item := range items {
		if err := r.checkItem(item); err != nil {
			return nil, fmt.Errorf("entry %d %w", idx, err)
		}
	}
	return decoded, nil
}

func (r RecordList) checkItem(item any) error {
	switch r.Shape {
	case RecordKeyValue:
		record, ok := item.(map[string]any)
		if !ok {
			return errors.New("must be a key/value record")
		}
		key, _ := record["key"].(string)
		if strings.TrimSpace(key) == "" {
			return errors.New("must have a key")
		}
		if v, exists := record["value"]; exists && v != nil {
			if _, ok := v.(string); !ok {
				return errors.New("must have a string value")
			}
		}
		return nil
	case RecordStatusCode:
		code, ok := validation.ToFloat(item)
		if !ok || code != math.Trunc(code) || code < 100 || code > 599 {
			return errors.New("must be an HTTP status code")
		}
		return nil
	default:
		return fmt.Errorf("has unsupported record shape %q", r.Shape)
	}
}

type structuredShape string

const (
	shapeObject structuredShape = "object"
	shapeArray  structuredShape = "array"
)

// Structured accepts an object (or list, when List is set) either as a
// structured value or as a JSON string parsing to the matching shape.
type Structured struct {
	List bool
}

func (Structured) Kind() RuleKind { return RuleStructured }
func (Structured) sealed()        {}

func (s Structured) Check(value any) (any, error) {
	if s.List {
		return decodeStructured(value, shapeArray)
	}
	return decodeStructured(value, shapeObject)
}

// ErrMalformedJSON marks structured input that failed to parse.
var ErrMalformedJSON = errors.New("must be valid JSON")

func decodeStructured(value any, want structuredShape) (any, error) {
	if raw, ok := value.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, ErrMalformedJSON
		}
		value = decoded
	}
	switch want {
	case shapeObject:
		if _, ok := value.(map[string]any); !ok {
			return nil, errors.New("must be a JSON object")
		}
	case shapeArray:
		if _, ok := toSlice(value); !ok {
			return nil, errors.New("must be a JSON array")
		}
	}
	return value, nil
}

// Pattern accepts strings matching Expr.
type Pattern struct {
	Expr *regexp.Regexp
}

func (Pattern) Kind() RuleKind { return RulePattern }
func (Pattern) sealed()        {}

func (p Pattern) Check(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be text")
	}
	if !p.Expr.MatchString(s) {
		return nil, fmt.Errorf("must match %s", p.Expr.String())
	}
	return value, nil
}

// String accepts any string.
type String struct{}

func (String) Kind() RuleKind { return RuleString }
func (String) sealed()        {}

func (String) Check(value any) (any, error) {
	if _, ok := value.(string); !ok {
		return nil, errors.New("must be text")
	}
	return value, nil
}

// Number accepts finite numbers; Integer additionally rejects fractions.
type Number struct {
	Integer bool
}

func (Number) Kind() RuleKind { return RuleNumber }
func (Number) sealed()        {}

func (n Number) Check(value any) (any, error) {
	f, ok := validation.ToFloat(value)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errors.New("must be a number")
	}
	if n.Integer && f != math.Trunc(f) {
		return nil, errors.New("must be a whole number")
	}
	return value, nil
}

// Boolean accepts true or false.
type Boolean struct{}

func (Boolean) Kind() RuleKind { return RuleBoolean }
func (Boolean) sealed()        {}

func (Boolean) Check(value any) (any, error) {
	if _, ok := value.(bool); !ok {
		return nil, errors.New("must be true or false")
	}
	return value, nil
}

// Any accepts every present value; used for undeclared field types.
type Any struct{}

func (Any) Kind() RuleKind { return RuleAny }
func (Any) sealed()        {}

func (Any) Check(value any) (any, error) {
	return value, nil
}

func isMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}

func toSlice(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []string:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = v
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

