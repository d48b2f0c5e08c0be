package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetCopiesAlongPath(t *testing.T) {
	original := ValueTree{
		"addr":  map[string]any{"zip": "1", "city": "Oslo"},
		"other": map[string]any{"keep": true},
	}

	updated, err := Set(original, "addr.zip", "2")
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	if got, _ := Get(original, "addr.zip"); got != "1" {
		t.Fatalf("original tree mutated, addr.zip = %v", got)
	}
	if got, _ := Get(updated, "addr.zip"); got != "2" {
		t.Fatalf("expected updated zip, got %v", got)
	}
	if got, _ := Get(updated, "addr.city"); got != "Oslo" {
		t.Fatalf("sibling lost, got %v", got)
	}
}

func TestSetCreatesIntermediateObjects(t *testing.T) {
	updated, err := Set(nil, "a.b.c", 3)
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	want := ValueTree{"a": map[string]any{"b": map[string]any{"c": 3}}}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if _, err := Set(nil, " ", 1); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestGetIndexesLists(t *testing.T) {
	tree := ValueTree{"tags": []any{"a", "b"}}
	if got, ok := Get(tree, "tags.1"); !ok || got != "b" {
		t.Fatalf("Get(tags.1) = %v, %v", got, ok)
	}
	if _, ok := Get(tree, "tags.5"); ok {
		t.Fatalf("expected out of range lookup to fail")
	}
}

func TestPaths(t *testing.T) {
	want := []string{
		"title", "level", "hidden", "nickname", "tags",
		"settings", "settings.volume", "settings.audio", "settings.audio.codec",
	}
	if diff := cmp.Diff(want, Paths(defaultsSpec())); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if Paths(nil) != nil {
		t.Fatalf("expected no paths for nil spec")
	}
}

func TestValidateSpec(t *testing.T) {
	if err := ValidateSpec(defaultsSpec()); err != nil {
		t.Fatalf("expected valid spec, got %v", err)
	}
	if err := ValidateSpec(nil); err != nil {
		t.Fatalf("nil spec should be accepted, got %v", err)
	}

	broken := &MetadataSpec{ID: "broken", Properties: []SpecProperty{
		{Name: "a", Type: TypeString},
		{Name: "a", Type: TypeString},
		{Name: "b", Type: "DATE"},
		{Name: "c", Type: TypeString, Properties: []SpecProperty{{Name: "d", Type: TypeString}}},
		{Name: "", Type: TypeString},
	}}
	err := ValidateSpec(broken)
	if err == nil {
		t.Fatalf("expected structural errors")
	}
	for _, fragment := range []string{`duplicate property "a"`, `unknown type "DATE"`, `"c" of type STRING declares child`, "has no name"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("expected wrapped error")
	}
}
