package loader_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

func document(t *testing.T, raw string) loader.Document {
	t.Helper()
	return loader.MustNewDocument(loader.SourceFromFile("fixture"), []byte(raw))
}

func TestDecodeMetadataSpecJSON(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "spec-1",
		"name": "Profile",
		"properties": [
			{"name": "nickname", "displayName": "<b>Nickname</b>", "type": "STRING", "required": true},
			{"name": "addr", "type": "OBJECT", "properties": [
				{"name": "zip", "type": "STRING", "placeholder": "<i>10115</i>"}
			]}
		]
	}`

	spec, err := loader.DecodeMetadataSpec(document(t, raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := &metadata.MetadataSpec{
		ID:   "spec-1",
		Name: "Profile",
		Properties: []metadata.SpecProperty{
			{Name: "nickname", DisplayName: "Nickname", Type: metadata.TypeString, Required: true},
			{Name: "addr", Type: metadata.TypeObject, Properties: []metadata.SpecProperty{
				{Name: "zip", Type: metadata.TypeString, Placeholder: "10115"},
			}},
		},
	}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMetadataSpecYAML(t *testing.T) {
	t.Parallel()

	raw := `
id: spec-2
name: Inventory
properties:
  - name: slots
    type: NUMBER
    required: true
    defaultValue: 10
  - name: tags
    type: TAGS
`
	spec, err := loader.DecodeMetadataSpec(document(t, raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.ID != "spec-2" || len(spec.Properties) != 2 {
		t.Fatalf("unexpected spec %#v", spec)
	}
	if spec.Properties[0].DefaultValue != float64(10) {
		t.Fatalf("default = %#v, want 10", spec.Properties[0].DefaultValue)
	}
}

func TestDecodeMetadataSpecRejectsUnknownType(t *testing.T) {
	t.Parallel()

	_, err := loader.DecodeMetadataSpec(document(t, `{"id":"x","properties":[{"name":"a","type":"DATE"}]}`))
	if err == nil || !strings.Contains(err.Error(), "DATE") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestDecodeMetadataSpecRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := loader.DecodeMetadataSpec(document(t, "{not: [valid")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := loader.DecodeMetadataSpec(document(t, `["a"]`)); err == nil {
		t.Fatalf("expected shape error")
	}
}

func TestDecodeMetadataSpecs(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"list":     `[{"id":"a","properties":[]},{"id":"b"}]`,
		"envelope": `{"offset":0,"total":2,"approximation":false,"objects":[{"id":"a"},{"id":"b"}]}`,
	}
	for name, raw := range cases {
		specs, err := loader.DecodeMetadataSpecs(document(t, raw))
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		ids := make([]string, 0, len(specs))
		for _, spec := range specs {
			ids = append(ids, spec.ID)
		}
		if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
			t.Fatalf("%s: ids mismatch (-want +got):\n%s", name, diff)
		}
	}

	single, err := loader.DecodeMetadataSpecs(document(t, `{"id":"solo"}`))
	if err != nil || len(single) != 1 || single[0].ID != "solo" {
		t.Fatalf("single spec = %#v, %v", single, err)
	}
}

func TestDecodeFieldSchemas(t *testing.T) {
	t.Parallel()

	raw := `
fields:
  - name: name
    label: "<script>x</script>Name"
    type: string
    required: true
  - name: secret
    type: string
    validationGroups:
      update: "null"
  - name: body
    type: object
    isArray: true
    conditionalVisibility:
      dependsOn: method
      showWhen: [POST, PUT]
`
	fields, err := loader.DecodeFieldSchemas(document(t, raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []resource.FieldSchema{
		{Name: "name", Label: "Name", Type: resource.FieldTypeString, Required: true},
		{Name: "secret", Type: resource.FieldTypeString, ValidationGroups: &resource.ValidationGroups{Update: resource.DirectiveNull}},
		{Name: "body", Type: resource.FieldTypeObject, IsArray: true, ConditionalVisibility: &visibility.Condition{DependsOn: "method", ShowWhen: []any{"POST", "PUT"}}},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFieldSchemasRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := loader.DecodeFieldSchemas(document(t, `[{"name":"a","type":"string"},{"name":"a","type":"number"}]`))
	if err == nil || !strings.Contains(err.Error(), `"a" declared twice`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestDecodeValues(t *testing.T) {
	t.Parallel()

	values, err := loader.DecodeValues(document(t, "nickname: neo\naddr:\n  zip: \"10115\"\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := metadata.ValueTree{"nickname": "neo", "addr": map[string]any{"zip": "10115"}}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSource(t *testing.T) {
	t.Parallel()

	src, err := loader.ParseSource("https://api.example.com/metadata_spec/1")
	if err != nil || src.Kind() != loader.SourceKindURL {
		t.Fatalf("expected url source, got %v, %v", src, err)
	}
	src, err = loader.ParseSource("./specs/profile.yaml")
	if err != nil || src.Kind() != loader.SourceKindFile || src.Location() != "specs/profile.yaml" {
		t.Fatalf("expected file source, got %v, %v", src, err)
	}
	if _, err := loader.ParseSource(" "); err == nil {
		t.Fatalf("expected empty source error")
	}
}
