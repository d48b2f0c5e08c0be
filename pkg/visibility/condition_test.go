package visibility

import (
	"errors"
	"testing"
)

func TestVisibleWithoutCondition(t *testing.T) {
	t.Parallel()

	if !Visible(nil, nil) {
		t.Fatalf("nil condition must be visible")
	}
	if !Visible(&Condition{}, map[string]any{"x": 1}) {
		t.Fatalf("empty condition must be visible")
	}
}

func TestVisibleScalarMatch(t *testing.T) {
	t.Parallel()

	cond := &Condition{DependsOn: "method", ShowWhen: "POST"}

	if !Visible(cond, map[string]any{"method": "POST"}) {
		t.Fatalf("expected visible when dependency matches")
	}
	if Visible(cond, map[string]any{"method": "GET"}) {
		t.Fatalf("expected hidden when dependency differs")
	}
	if Visible(cond, map[string]any{}) {
		t.Fatalf("expected hidden when dependency is absent")
	}
}

func TestVisibleListMatch(t *testing.T) {
	t.Parallel()

	cond := &Condition{DependsOn: "method", ShowWhen: []any{"POST", "PUT"}}
	for _, method := range []string{"POST", "PUT"} {
		if !Visible(cond, map[string]any{"method": method}) {
			t.Fatalf("expected visible for %s", method)
		}
	}
	if Visible(cond, map[string]any{"method": "DELETE"}) {
		t.Fatalf("expected hidden for DELETE")
	}

	typed := &Condition{DependsOn: "method", ShowWhen: []string{"PATCH"}}
	if !Visible(typed, map[string]any{"method": "PATCH"}) {
		t.Fatalf("expected []string showWhen to match")
	}
}

func TestVisibleCoercesInputForms(t *testing.T) {
	t.Parallel()

	boolCond := &Condition{DependsOn: "enabled", ShowWhen: true}
	if !Visible(boolCond, map[string]any{"enabled": "true"}) {
		t.Fatalf("expected string true to match bool true")
	}
	if Visible(boolCond, map[string]any{"enabled": false}) {
		t.Fatalf("expected false to hide")
	}

	numCond := &Condition{DependsOn: "count", ShowWhen: 3}
	if !Visible(numCond, map[string]any{"count": "3"}) {
		t.Fatalf("expected numeric string to match")
	}
	if !Visible(numCond, map[string]any{"count": float64(3)}) {
		t.Fatalf("expected float to match int")
	}

	nullCond := &Condition{DependsOn: "parent", ShowWhen: nil}
	if !Visible(nullCond, map[string]any{"parent": ""}) {
		t.Fatalf("expected empty string to match nil")
	}
}

func TestVisibleNestedLookup(t *testing.T) {
	t.Parallel()

	cond := &Condition{DependsOn: "auth.kind", ShowWhen: "oauth"}
	values := map[string]any{"auth": map[string]any{"kind": "oauth"}}
	if !Visible(cond, values) {
		t.Fatalf("expected nested lookup to match")
	}
	if !Visible(cond, map[string]any{"auth.kind": "oauth"}) {
		t.Fatalf("expected flattened key to match")
	}
}

func TestEvaluatorFuncExtras(t *testing.T) {
	t.Parallel()

	ok, err := Default.Eval("secret", Condition{DependsOn: "extras.role", ShowWhen: "admin"}, Context{
		Extras: map[string]any{"role": "admin"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected extras lookup to match")
	}

	failing := EvaluatorFunc(func(string, Condition, Context) (bool, error) {
		return false, errors.New("boom")
	})
	if _, err := failing.Eval("x", Condition{DependsOn: "y"}, Context{}); err == nil {
		t.Fatalf("expected error to propagate")
	}
}
