package orchestrator_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	"github.com/NamazuStudios/elements-formgen/pkg/orchestrator"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/testsupport"
)

func itemSource() loader.Source {
	return loader.SourceFromFile(filepath.Join("testdata", "elements.yaml"))
}

func TestOrchestrator_FieldsGolden(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	fields, err := orch.Fields(testsupport.Context(), orchestrator.Request{
		Source:    itemSource(),
		Component: "Item",
	})
	if err != nil {
		t.Fatalf("fields: %v", err)
	}

	goldenPath := filepath.Join("testdata", "item_fields.golden.json")
	if testsupport.WriteGolden(t, goldenPath, fields) {
		return
	}
	want := testsupport.MustLoadFields(t, goldenPath)
	if diff := testsupport.CompareGolden(want, fields); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_OpenCreateForm(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	f, err := orch.Open(testsupport.Context(), orchestrator.Request{
		Source:    itemSource(),
		Component: "Item",
		Mode:      resource.ModeCreate,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if f.Resource() != "Item" {
		t.Fatalf("expected resource to default to the component, got %q", f.Resource())
	}

	want := []string{"name", "displayName", "category", "description", "metadata", "metadataSpec", "publicVisible", "tags"}
	if diff := cmp.Diff(want, names(f.Visible())); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	result := f.Validate()
	wantErrors := map[string]string{
		"name":     "Name is required",
		"category": "category is required",
	}
	if diff := cmp.Diff(wantErrors, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	for path, value := range map[string]any{"name": "sword", "category": "FUNGIBLE", "quantity": 2.5} {
		if err := f.Set(path, value); err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
	}
	_, err = f.Submit()
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := verr.Result.Errors["quantity"]; got != "quantity must be a whole number" {
		t.Fatalf("unexpected quantity error %q", got)
	}

	if err := f.Set("quantity", 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	payload, err := f.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	wantPayload := map[string]any{"name": "sword", "category": "FUNGIBLE", "quantity": 3}
	if diff := cmp.Diff(wantPayload, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_OperationRequestBody(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile(filepath.Join("testdata", "elements.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc := loader.MustNewDocument(itemSource(), raw)

	orch := orchestrator.New()
	f, err := orch.Open(testsupport.Context(), orchestrator.Request{
		Document:    &doc,
		OperationID: "createItem",
		Resource:    "item",
		Mode:        resource.ModeUpdate,
		ItemID:      "item-1",
		Values:      map[string]any{"id": "item-1", "name": "sword", "category": "DISTINCT"},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if f.Resource() != "item" || f.ItemID() != "item-1" {
		t.Fatalf("unexpected form identity %s/%s", f.Resource(), f.ItemID())
	}
	if result := f.Validate(); !result.Valid {
		t.Fatalf("expected valid update, got %#v", result.Errors)
	}
}

func TestOrchestrator_AppliesTransformers(t *testing.T) {
	t.Parallel()

	preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("testdata"), "item_preset.json")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}

	called := false
	orch := orchestrator.New(
		orchestrator.WithSchemaTransformer(preset),
		orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(func(_ context.Context, fields *[]resource.FieldSchema) error {
			called = true
			if (*fields)[0].Name != "name" {
				t.Errorf("preset must run first, got %s", (*fields)[0].Name)
			}
			return nil
		})),
	)

	fields, err := orch.Fields(testsupport.Context(), orchestrator.Request{Source: itemSource(), Component: "Item"})
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if !called {
		t.Fatalf("expected transformer to be invoked")
	}

	want := []string{"name", "description", "id", "category", "metadata", "publicVisible", "quantity", "tags"}
	if diff := cmp.Diff(want, names(fields)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if fields[1].Label != "Description" {
		t.Fatalf("expected patched label, got %q", fields[1].Label)
	}
	if resource.IsVisible(fields[len(fields)-1], resource.ModeUpdate) {
		t.Fatalf("tags should be hidden on update after the patch")
	}
}

func TestOrchestrator_TransformerErrors(t *testing.T) {
	t.Parallel()

	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields": {"missing": {"label": "x"}}}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithSchemaTransformer(preset))
	_, err = orch.Fields(testsupport.Context(), orchestrator.Request{Source: itemSource(), Component: "Item"})
	if err == nil || !strings.Contains(err.Error(), `field "missing" not found`) {
		t.Fatalf("expected missing field error, got %v", err)
	}

	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestOrchestrator_RequestValidation(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	ctx := testsupport.Context()

	cases := map[string]orchestrator.Request{
		"no target":   {Source: itemSource()},
		"both target": {Source: itemSource(), Component: "Item", OperationID: "createItem"},
		"no source":   {Component: "Item"},
		"unknown":     {Source: itemSource(), Component: "Nope"},
	}
	for name, req := range cases {
		if _, err := orch.Fields(ctx, req); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := orch.Fields(cancelled, orchestrator.Request{Source: itemSource(), Component: "Item"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}

	if _, err := orch.Open(ctx, orchestrator.Request{Source: itemSource(), Component: "Item", Mode: resource.ModeUpdate}); err == nil {
		t.Fatalf("expected update without item id to fail")
	}
}

func TestOrchestrator_LogsResolution(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	orch := orchestrator.New(orchestrator.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	if _, err := orch.Fields(testsupport.Context(), orchestrator.Request{Source: itemSource(), Component: "Item"}); err != nil {
		t.Fatalf("fields: %v", err)
	}
	if !strings.Contains(buf.String(), `"message":"fields resolved"`) || !strings.Contains(buf.String(), `"fields":10`) {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func names(fields []resource.FieldSchema) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Name)
	}
	return out
}
