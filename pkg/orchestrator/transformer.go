package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

// Transformer patches parsed fields before a form is built. Implementations
// can relabel fields, tighten validation groups or reorder them.
type Transformer interface {
	Transform(ctx context.Context, fields *[]resource.FieldSchema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, fields *[]resource.FieldSchema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, fields *[]resource.FieldSchema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, fields)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports an explicit order plus per-field patches:
//
//	{
//	  "order": ["name", "description"],
//	  "drop": ["parent"],
//	  "fields": {
//	    "name": {"label": "Name", "pattern": "^[a-z]+$", "validationGroups": {"update": "notNull"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Order  []string                  `json:"order"`
	Drop   []string                  `json:"drop"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label                 string                     `json:"label"`
	Pattern               string                     `json:"pattern"`
	Rename                string                     `json:"rename"`
	Required              *bool                      `json:"required"`
	EnumValues            []string                   `json:"enumValues"`
	ValidationGroups      *resource.ValidationGroups `json:"validationGroups"`
	ConditionalVisibility *visibility.Condition      `json:"conditionalVisibility"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies drops, then patches, then the explicit order. Patches and
// order entries naming unknown fields are errors.
func (t *JSONPresetTransformer) Transform(ctx context.Context, fields *[]resource.FieldSchema) error {
	if fields == nil {
		return errors.New("json preset transformer: fields are nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := dropFields(*fields, t.document.Drop)
	names := make([]string, 0, len(t.document.Fields))
	for name := range t.document.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		patch := t.document.Fields[name]
		idx := indexOf(out, name)
		if idx < 0 {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(&out[idx], patch)
	}

	if len(t.document.Order) > 0 {
		ordered, err := reorder(out, t.document.Order)
		if err != nil {
			return err
		}
		out = ordered
	}
	*fields = out
	return nil
}

func applyFieldPatch(field *resource.FieldSchema, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Pattern != "" {
		field.Pattern = patch.Pattern
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if len(patch.EnumValues) > 0 {
		field.EnumValues = append([]string(nil), patch.EnumValues...)
	}
	if patch.ValidationGroups != nil {
		groups := *patch.ValidationGroups
		field.ValidationGroups = &groups
	}
	if patch.ConditionalVisibility != nil {
		cond := *patch.ConditionalVisibility
		field.ConditionalVisibility = &cond
	}
	if strings.TrimSpace(patch.Rename) != "" {
		field.Name = strings.TrimSpace(patch.Rename)
	}
}

func dropFields(fields []resource.FieldSchema, names []string) []resource.FieldSchema {
	out := make([]resource.FieldSchema, 0, len(fields))
	for _, field := range fields {
		dropped := false
		for _, name := range names {
			if field.Name == name {
				dropped = true
				break
			}
		}
		if !dropped {
			out = append(out, field)
		}
	}
	return out
}

// reorder moves the named fields to the front in the given order; the rest
// keep their relative order.
func reorder(fields []resource.FieldSchema, order []string) ([]resource.FieldSchema, error) {
	out := make([]resource.FieldSchema, 0, len(fields))
	taken := make(map[int]bool, len(order))
	for _, name := range order {
		idx := indexOf(fields, name)
		if idx < 0 {
			return nil, fmt.Errorf("json preset transformer: ordered field %q not found", name)
		}
		if taken[idx] {
			continue
		}
		taken[idx] = true
		out = append(out, fields[idx])
	}
	for idx, field := range fields {
		if !taken[idx] {
			out = append(out, field)
		}
	}
	return out, nil
}

func indexOf(fields []resource.FieldSchema, name string) int {
	for idx := range fields {
		if fields[idx].Name == name {
			return idx
		}
	}
	return -1
}
