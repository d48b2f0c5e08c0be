package visibility

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// Default evaluates conditions by comparing the current dependency value with
// the accepted ShowWhen values. Comparisons coerce across the string forms a
// text input produces ("true", "3") and their native counterparts.
var Default Evaluator = EvaluatorFunc(evalCondition)

// Visible evaluates cond against values with the Default evaluator. A nil or
// empty condition is always visible.
func Visible(cond *Condition, values map[string]any) bool {
	if cond.Empty() {
		return true
	}
	ok, err := Default.Eval("", *cond, Context{Values: values})
	return err == nil && ok
}

func evalCondition(_ string, cond Condition, ctx Context) (bool, error) {
	key := strings.TrimSpace(cond.DependsOn)
	if key == "" {
		return true, nil
	}

	value, ok := lookup(ctx, key)
	if !ok {
		value = nil
	}

	for _, want := range acceptedValues(cond.ShowWhen) {
		if matches(value, want) {
			return true, nil
		}
	}
	return false, nil
}

func acceptedValues(showWhen any) []any {
	switch typed := showWhen.(type) {
	case nil:
		return []any{nil}
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = v
		}
		return out
	default:
		rv := reflect.ValueOf(showWhen)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := make([]any, rv.Len())
			for i := range out {
				out[i] = rv.Index(i).Interface()
			}
			return out
		}
		return []any{showWhen}
	}
}

func matches(value, want any) bool {
	switch w := want.(type) {
	case nil:
		return value == nil || coerceString(value) == ""
	case bool:
		got, ok := coerceBool(value)
		return ok && got == w
	case string:
		return coerceString(value) == w
	default:
		if wantNum, ok := coerceNumber(want); ok {
			got, ok := coerceNumber(value)
			return ok && got == wantNum
		}
		return reflect.DeepEqual(value, want)
	}
}

func lookup(ctx Context, key string) (any, bool) {
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupMap(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}

	// Prefer exact match for flattened dotted keys.
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := node[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return parsed, err == nil
	default:
		if n, ok := coerceNumber(value); ok {
			return n != 0, true
		}
		return false, false
	}
}

func coerceNumber(value any) (float64, bool) {
	if v, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return validation.ToFloat(value)
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
