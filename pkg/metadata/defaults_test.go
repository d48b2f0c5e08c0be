package metadata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func defaultsSpec() *MetadataSpec {
	return &MetadataSpec{
		ID: "game",
		Properties: []SpecProperty{
			{Name: "title", Type: TypeString, DefaultValue: "Untitled"},
			{Name: "level", Type: TypeNumber, DefaultValue: 1},
			{Name: "hidden", Type: TypeBoolean, DefaultValue: false},
			{Name: "nickname", Type: TypeString},
			{Name: "tags", Type: TypeTags, DefaultValue: []any{"new"}},
			{Name: "settings", Type: TypeObject, Properties: []SpecProperty{
				{Name: "volume", Type: TypeNumber, DefaultValue: 0.5},
				{Name: "audio", Type: TypeObject, Properties: []SpecProperty{
					{Name: "codec", Type: TypeEnum, DefaultValue: "opus"},
				}},
			}},
		},
	}
}

func TestApplyDefaultsFillsEmptySlots(t *testing.T) {
	spec := defaultsSpec()
	tree := ValueTree{"title": "", "level": nil}

	ApplyDefaults(spec.Properties, tree)

	want := ValueTree{
		"title":  "Untitled",
		"level":  1,
		"hidden": false,
		"tags":   []any{"new"},
		"settings": map[string]any{
			"volume": 0.5,
			"audio":  map[string]any{"codec": "opus"},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("defaulted tree mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyDefaultsDoesNotClobber(t *testing.T) {
	spec := defaultsSpec()
	tree := ValueTree{
		"title":    "Quest",
		"level":    0,
		"hidden":   true,
		"settings": map[string]any{"volume": 0.9},
	}

	ApplyDefaults(spec.Properties, tree)

	if tree["title"] != "Quest" || tree["level"] != 0 || tree["hidden"] != true {
		t.Fatalf("present values were overwritten: %#v", tree)
	}
	settings := tree["settings"].(map[string]any)
	if settings["volume"] != 0.9 {
		t.Fatalf("nested present value overwritten: %#v", settings)
	}
	if _, ok := settings["audio"].(map[string]any); !ok {
		t.Fatalf("expected nested object to be created, got %#v", settings)
	}
}

func TestApplyDefaultsReplacesNonObjectSlot(t *testing.T) {
	spec := defaultsSpec()
	tree := ValueTree{"settings": "garbage"}

	ApplyDefaults(spec.Properties, tree)

	settings, ok := tree["settings"].(map[string]any)
	if !ok {
		t.Fatalf("expected settings to become an object, got %#v", tree["settings"])
	}
	if settings["volume"] != 0.5 {
		t.Fatalf("expected nested default, got %#v", settings)
	}
}

func TestApplyDefaultsIsIdempotent(t *testing.T) {
	spec := defaultsSpec()
	trees := []ValueTree{
		{},
		{"title": "Quest"},
		{"settings": map[string]any{"audio": map[string]any{"codec": ""}}},
		{"settings": nil, "tags": []any{}},
		{"unknown": "kept"},
	}
	for i, tree := range trees {
		once := WithDefaults(spec.Properties, tree)
		twice := WithDefaults(spec.Properties, once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("tree %d: defaulting not idempotent (-once +twice):\n%s", i, diff)
		}
	}
}

func TestWithDefaultsDoesNotAlias(t *testing.T) {
	spec := defaultsSpec()
	input := ValueTree{"settings": map[string]any{"volume": 0.2}}

	first := WithDefaults(spec.Properties, input)
	second := WithDefaults(spec.Properties, input)

	if _, ok := input["settings"].(map[string]any)["audio"]; ok {
		t.Fatalf("WithDefaults mutated its input: %#v", input)
	}

	first["tags"].([]any)[0] = "changed"
	if second["tags"].([]any)[0] != "new" {
		t.Fatalf("default value shared between trees")
	}
	if spec.Properties[4].DefaultValue.([]any)[0] != "new" {
		t.Fatalf("default value in spec mutated")
	}
}

func TestApplyDefaultsIgnoresNilTarget(t *testing.T) {
	ApplyDefaults(defaultsSpec().Properties, nil)
}

func TestReselect(t *testing.T) {
	spec := defaultsSpec()
	other := &MetadataSpec{ID: "other", Properties: []SpecProperty{
		{Name: "color", Type: TypeString, DefaultValue: "red"},
	}}

	entered := ValueTree{"title": "Quest", "level": ""}

	first := Reselect(nil, spec, entered)
	if first["title"] != "Quest" || first["level"] != 1 {
		t.Fatalf("first selection should merge entered values, got %#v", first)
	}

	same := Reselect(spec, spec, first)
	if diff := cmp.Diff(first, same); diff != "" {
		t.Fatalf("reselecting the same spec changed values (-want +got):\n%s", diff)
	}

	switched := Reselect(spec, other, first)
	if diff := cmp.Diff(ValueTree{"color": "red"}, switched); diff != "" {
		t.Fatalf("switching specs should clear values (-want +got):\n%s", diff)
	}

	freeForm := Reselect(spec, nil, first)
	if diff := cmp.Diff(first, freeForm); diff != "" {
		t.Fatalf("clearing the spec should keep values (-want +got):\n%s", diff)
	}
}
