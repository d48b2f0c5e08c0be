package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// DecodeMetadataSpec decodes a single spec from a JSON or YAML document.
// Labels are stripped of markup and the tree is checked with
// metadata.ValidateSpec.
func DecodeMetadataSpec(doc Document) (*metadata.MetadataSpec, error) {
	data, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("loader: %s: expected a metadata spec object", doc.Location())
	}

	var spec metadata.MetadataSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("loader: decode metadata spec %s: %w", doc.Location(), err)
	}
	sanitizeSpec(&spec)
	if err := metadata.ValidateSpec(&spec); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", doc.Location(), err)
	}
	return &spec, nil
}

// DecodeMetadataSpecs decodes a list of specs. The document may hold a bare
// list, a pagination envelope ({"objects": [...]}) or a single spec.
func DecodeMetadataSpecs(doc Document) ([]metadata.MetadataSpec, error) {
	data, err := normalize(doc)
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(data)
	switch {
	case parsed.IsArray():
	case parsed.Get("objects").IsArray():
		data = []byte(parsed.Get("objects").Raw)
	case parsed.IsObject():
		data = []byte("[" + parsed.Raw + "]")
	default:
		return nil, fmt.Errorf("loader: %s: expected a list of metadata specs", doc.Location())
	}

	var specs []metadata.MetadataSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("loader: decode metadata specs %s: %w", doc.Location(), err)
	}
	var errs []error
	for i := range specs {
		sanitizeSpec(&specs[i])
		if err := metadata.ValidateSpec(&specs[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", doc.Location(), err)
	}
	return specs, nil
}

// DecodeFieldSchemas decodes resource field descriptors. The document may hold
// a bare list or an object with a "fields" list.
func DecodeFieldSchemas(doc Document) ([]resource.FieldSchema, error) {
	data, err := normalize(doc)
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(data)
	switch {
	case parsed.IsArray():
	case parsed.Get("fields").IsArray():
		data = []byte(parsed.Get("fields").Raw)
	default:
		return nil, fmt.Errorf("loader: %s: expected a list of fields", doc.Location())
	}

	var fields []resource.FieldSchema
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("loader: decode fields %s: %w", doc.Location(), err)
	}
	if err := checkFields(fields); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", doc.Location(), err)
	}
	for i := range fields {
		fields[i].Name = strings.TrimSpace(fields[i].Name)
		fields[i].Label = sanitizeText(fields[i].Label)
	}
	return fields, nil
}

// DecodeValues decodes a value tree.
func DecodeValues(doc Document) (metadata.ValueTree, error) {
	data, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("loader: %s: expected an object of values", doc.Location())
	}
	values := metadata.ValueTree{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("loader: decode values %s: %w", doc.Location(), err)
	}
	return values, nil
}

// normalize returns the document as JSON, converting YAML when the payload is
// not valid JSON.
func normalize(doc Document) ([]byte, error) {
	raw := doc.Raw()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("loader: document %s is empty", doc.Location())
	}
	if json.Valid(raw) {
		return raw, nil
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("loader: parse %s: invalid JSON or YAML", doc.Location())
	}
	data, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", doc.Location(), err)
	}
	return data, nil
}

func checkFields(fields []resource.FieldSchema) error {
	var errs []error
	seen := make(map[string]struct{}, len(fields))
	for i, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("field %d has no name", i))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("field %q declared twice", name))
		}
		seen[name] = struct{}{}
	}
	return errors.Join(errs...)
}
