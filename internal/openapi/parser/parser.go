// Package parser implements pkg/openapi.Parser on top of kin-openapi.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	pkgopenapi "github.com/NamazuStudios/elements-formgen/pkg/openapi"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Components lists the component schemas declared by doc.
func (p *Parser) Components(ctx context.Context, doc loader.Document) ([]string, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Fields converts the properties of the named component schema.
func (p *Parser) Fields(ctx context.Context, doc loader.Document, component string) ([]resource.FieldSchema, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, fmt.Errorf("openapi parser: component %q not found", component)
	}
	ref, ok := spec.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi parser: component %q not found", component)
	}
	return p.convertObject(ref.Value)
}

// RequestFields converts the JSON request body of the operation with the given
// operationId.
func (p *Parser) RequestFields(ctx context.Context, doc loader.Document, operationID string) ([]resource.FieldSchema, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}
	if spec.Paths == nil {
		return nil, fmt.Errorf("openapi parser: operation %q not found", operationID)
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil || op.OperationID != operationID {
				continue
			}
			schema := requestSchema(op.RequestBody)
			if schema == nil {
				return nil, fmt.Errorf("openapi parser: operation %q has no request body schema", operationID)
			}
			return p.convertObject(schema)
		}
	}
	return nil, fmt.Errorf("openapi parser: operation %q not found", operationID)
}

func (p *Parser) load(ctx context.Context, doc loader.Document) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	l := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	spec, err := l.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	return spec, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (p *Parser) convertObject(schema *openapi3.Schema) ([]resource.FieldSchema, error) {
	properties := make(map[string]*openapi3.SchemaRef)
	required := make(map[string]struct{})
	collectProperties(schema, properties, required, 0)
	if len(properties) == 0 {
		return nil, errors.New("openapi parser: schema declares no properties")
	}

	type ordered struct {
		field resource.FieldSchema
		order int
		has   bool
	}
	items := make([]ordered, 0, len(properties))
	for name, ref := range properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		if p.options.SkipReadOnly && prop.ReadOnly && name != resource.IDField {
			continue
		}
		_, isRequired := required[name]
		field, err := convertProperty(name, prop, isRequired)
		if err != nil {
			return nil, err
		}
		order, has := orderOf(prop.Extensions)
		items = append(items, ordered{field: field, order: order, has: has})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.has != b.has {
			return a.has
		}
		if a.has && a.order != b.order {
			return a.order < b.order
		}
		return a.field.Name < b.field.Name
	})

	out := make([]resource.FieldSchema, 0, len(items))
	for _, item := range items {
		out = append(out, item.field)
	}
	return out, nil
}

// collectProperties flattens properties declared directly and through allOf.
func collectProperties(schema *openapi3.Schema, props map[string]*openapi3.SchemaRef, required map[string]struct{}, depth int) {
	if schema == nil || depth > 16 {
		return
	}
	for _, ref := range schema.AllOf {
		if ref != nil {
			collectProperties(ref.Value, props, required, depth+1)
		}
	}
	for name, ref := range schema.Properties {
		props[name] = ref
	}
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}
}

func convertProperty(name string, prop *openapi3.Schema, required bool) (resource.FieldSchema, error) {
	field := resource.FieldSchema{
		Name:     name,
		Label:    labelOf(prop),
		Required: required,
		Pattern:  prop.Pattern,
	}

	typ := schemaType(prop.Type)
	target := prop
	switch {
	case typ == "array":
		field.IsArray = true
		if prop.Items != nil && prop.Items.Value != nil {
			target = prop.Items.Value
			typ = schemaType(target.Type)
			if field.Pattern == "" {
				field.Pattern = target.Pattern
			}
		} else {
			typ = ""
		}
	case typ == "object" || (typ == "" && len(prop.Properties) > 0):
		typ = "object"
		if isMap(prop) {
			field.IsMap = true
		}
	case typ == "" && isMap(prop):
		typ = "object"
		field.IsMap = true
	}

	field.Type = fieldType(typ, target)
	field.EnumValues = enumValues(target.Enum)

	groups, err := validationGroups(prop.Extensions)
	if err != nil {
		return resource.FieldSchema{}, fmt.Errorf("openapi parser: property %q: %w", name, err)
	}
	field.ValidationGroups = groups

	cond, err := conditionalVisibility(prop.Extensions)
	if err != nil {
		return resource.FieldSchema{}, fmt.Errorf("openapi parser: property %q: %w", name, err)
	}
	field.ConditionalVisibility = cond
	return field, nil
}

func labelOf(prop *openapi3.Schema) string {
	if label, ok := prop.Extensions[pkgopenapi.ExtLabel].(string); ok && strings.TrimSpace(label) != "" {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(prop.Title)
}

func isMap(prop *openapi3.Schema) bool {
	if len(prop.Properties) > 0 {
		return false
	}
	ap := prop.AdditionalProperties
	return ap.Schema != nil || (ap.Has != nil && *ap.Has)
}

func fieldType(typ string, schema *openapi3.Schema) resource.FieldType {
	switch typ {
	case "string":
		return resource.FieldTypeString
	case "number":
		return resource.FieldTypeNumber
	case "integer":
		return resource.FieldTypeInteger
	case "boolean":
		return resource.FieldTypeBoolean
	case "object":
		return resource.FieldTypeObject
	case "":
		if schema != nil && len(schema.Properties) > 0 {
			return resource.FieldTypeObject
		}
		return ""
	default:
		return resource.FieldType(typ)
	}
}

// schemaType returns the first non-null type.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func enumValues(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, fmt.Sprint(value))
	}
	return out
}
