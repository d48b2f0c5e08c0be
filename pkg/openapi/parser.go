package openapi

import (
	"context"

	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// Extension keys read from schema properties.
const (
	ExtValidationGroups      = "x-validation-groups"
	ExtConditionalVisibility = "x-conditional-visibility"
	ExtOrder                 = "x-order"
	ExtLabel                 = "x-label"
)

// Parser derives resource fields from OpenAPI documents.
type Parser interface {
	// Components lists the component schema names in name order.
	Components(ctx context.Context, doc loader.Document) ([]string, error)
	// Fields converts the properties of a component schema.
	Fields(ctx context.Context, doc loader.Document, component string) ([]resource.FieldSchema, error)
	// RequestFields converts the JSON request body of an operation.
	RequestFields(ctx context.Context, doc loader.Document, operationID string) ([]resource.FieldSchema, error)
}

// ParserOptions toggles parser behaviour.
type ParserOptions struct {
	// ResolveReferences validates the document and resolves external $refs.
	ResolveReferences bool

	// SkipReadOnly leaves out readOnly properties other than the id field.
	SkipReadOnly bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithSkipReadOnly toggles dropping readOnly properties.
func WithSkipReadOnly(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.SkipReadOnly = enabled
	}
}

// NewParserOptions applies options over the defaults.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
