package resource

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

func deploymentFields() []FieldSchema {
	return []FieldSchema{
		{Name: "id", Type: FieldTypeString},
		{Name: "name", Type: FieldTypeString, Required: true},
		{Name: "slug", Type: FieldTypeString, Pattern: "^[a-z0-9-]+$"},
		{Name: "method", Type: FieldTypeString, EnumValues: []string{"GET", "POST", "PUT"}, Required: true},
		{Name: "body", Type: FieldTypeObject, IsArray: true, ConditionalVisibility: &visibility.Condition{DependsOn: "method", ShowWhen: []any{"POST", "PUT"}}},
		{Name: "headers", Type: FieldTypeObject, IsArray: true},
		{Name: "statusCodes", Type: FieldTypeInteger, IsArray: true},
		{Name: "attributes", Type: FieldTypeObject, IsMap: true},
		{Name: "tags", Type: FieldTypeString, IsArray: true},
		{Name: "retries", Type: FieldTypeInteger},
		{Name: "enabled", Type: FieldTypeBoolean},
		{Name: "token", Type: FieldTypeString, Required: true, ConditionalVisibility: &visibility.Condition{DependsOn: "enabled", ShowWhen: true}},
	}
}

func TestValidateAcceptsWellFormedValues(t *testing.T) {
	t.Parallel()

	rs := BuildValidationSchema(deploymentFields(), ModeCreate)
	values := map[string]any{
		"name":        "deploy",
		"slug":        "deploy-1",
		"method":      "POST",
		"body":        `[{"key":"a","value":"b"}]`,
		"headers":     []any{map[string]any{"key": "X-Trace", "value": "1"}},
		"statusCodes": []any{200, float64(201)},
		"attributes":  `{"region":"eu"}`,
		"tags":        []any{"prod"},
		"retries":     3,
		"enabled":     false,
		"token":       "",
	}
	if result := rs.Validate(values); !result.Valid {
		t.Fatalf("expected valid values, got %#v", result.Errors)
	}
}

func TestValidateReportsFieldErrors(t *testing.T) {
	t.Parallel()

	rs := BuildValidationSchema(deploymentFields(), ModeCreate)
	values := map[string]any{
		"name":        "",
		"slug":        "Not A Slug",
		"method":      "PATCH",
		"headers":     []any{map[string]any{"value": "x"}},
		"statusCodes": []any{42},
		"attributes":  `{"region":`,
		"tags":        []any{"a", 1},
		"retries":     1.5,
		"enabled":     "yes",
	}

	result := rs.Validate(values)
	want := map[string]string{
		"name":        "name is required",
		"slug":        "slug must match ^[a-z0-9-]+$",
		"method":      "method must be one of: GET, POST, PUT",
		"headers":     "headers entry 0 must have a key",
		"statusCodes": "statusCodes entry 0 must be an HTTP status code",
		"attributes":  "attributes must be valid JSON",
		"tags":        "tags must be a list of strings",
		"retries":     "retries must be a whole number",
		"enabled":     "enabled must be true or false",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if values["attributes"] != `{"region":` {
		t.Fatalf("malformed JSON must be left as entered, got %#v", values["attributes"])
	}
}

func TestStructuredShapeMismatch(t *testing.T) {
	t.Parallel()

	rs := BuildValidationSchema([]FieldSchema{
		{Name: "config", Type: FieldTypeObject},
		{Name: "bundles", Type: FieldTypeObject, IsArray: true},
	}, ModeCreate)

	result := rs.Validate(map[string]any{"config": `[]`, "bundles": `{}`})
	want := map[string]string{
		"config":  "config must be a JSON object",
		"bundles": "bundles must be a JSON array",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	if !IsMalformed(Structured{}, "{") {
		t.Fatalf("expected malformed JSON to be detected")
	}
	if IsMalformed(Structured{}, "[]") {
		t.Fatalf("shape mismatch is not malformed JSON")
	}
}

func TestHiddenFieldsSkipRequiredCheck(t *testing.T) {
	t.Parallel()

	rs := BuildValidationSchema(deploymentFields(), ModeCreate)

	hidden := map[string]any{"name": "x", "method": "GET", "enabled": false, "body": "not json"}
	if result := rs.Validate(hidden); !result.Valid {
		t.Fatalf("hidden fields must not be validated, got %#v", result.Errors)
	}

	shown := map[string]any{"name": "x", "method": "GET", "enabled": true}
	result := rs.Validate(shown)
	if diff := cmp.Diff(map[string]string{"token": "token is required"}, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmissionExcludesHiddenAndClearedFields(t *testing.T) {
	t.Parallel()

	rs := BuildValidationSchema(deploymentFields(), ModeCreate)
	values := map[string]any{
		"id":         "ignored-in-create",
		"name":       "deploy",
		"slug":       "",
		"method":     "GET",
		"body":       `[{"key":"a"}]`,
		"attributes": `{"region":"eu"}`,
		"enabled":    false,
		"token":      "hidden",
	}

	got := rs.Submission(values)
	want := map[string]any{
		"name":       "deploy",
		"method":     "GET",
		"attributes": map[string]any{"region": "eu"},
		"enabled":    false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func TestNaNNumberIsMissing(t *testing.T) {
	t.Parallel()

	rs := BuildValidationSchema([]FieldSchema{{Name: "count", Type: FieldTypeNumber, Required: true}}, ModeCreate)
	result := rs.Validate(map[string]any{"count": math.NaN()})
	if got, _ := result.ErrorAt("count"); got != "count is required" {
		t.Fatalf("expected NaN to be reported as missing, got %q", got)
	}
}

func TestRefinementsSeeDecodedValues(t *testing.T) {
	t.Parallel()

	var seen map[string]any
	rs := BuildValidationSchema(
		[]FieldSchema{{Name: "jsonKey", Type: FieldTypeObject, Required: true}, {Name: "count", Type: FieldTypeNumber}},
		ModeCreate,
		WithRefinement(func(values map[string]any) []validation.Issue {
			seen = values
			return []validation.Issue{{Path: "count", Message: "count is out of range"}}
		}),
	)

	result := rs.Validate(map[string]any{"jsonKey": `{"a":1}`, "count": 5})
	if diff := cmp.Diff(map[string]any{"jsonKey": map[string]any{"a": float64(1)}, "count": 5}, seen); diff != "" {
		t.Fatalf("refinement input mismatch (-want +got):\n%s", diff)
	}
	if got, _ := result.ErrorAt("count"); got != "count is out of range" {
		t.Fatalf("expected refinement issue, got %#v", result.Errors)
	}
}

func TestCustomEvaluator(t *testing.T) {
	t.Parallel()

	hideAll := visibility.EvaluatorFunc(func(string, visibility.Condition, visibility.Context) (bool, error) {
		return false, nil
	})
	rs := BuildValidationSchema(deploymentFields(), ModeCreate, WithEvaluator(hideAll))

	visible := rs.Visible(map[string]any{"method": "POST"})
	for _, entry := range visible {
		if entry.Field.ConditionalVisibility != nil {
			t.Fatalf("conditional field %s should be hidden", entry.Field.Name)
		}
	}
}
