package formgen

import (
	"context"

	internalLoader "github.com/NamazuStudios/elements-formgen/internal/loader"
	internalParser "github.com/NamazuStudios/elements-formgen/internal/openapi/parser"
	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	pkgopenapi "github.com/NamazuStudios/elements-formgen/pkg/openapi"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...loader.LoaderOption) loader.Loader {
	cfg := loader.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// FieldsFromComponent converts the named component schema of an in-memory
// OpenAPI document into resource fields.
func FieldsFromComponent(ctx context.Context, raw []byte, component string, options ...pkgopenapi.ParserOption) ([]resource.FieldSchema, error) {
	doc, err := loader.NewDocument(loader.SourceFromFile("inline"), raw)
	if err != nil {
		return nil, err
	}
	return NewParser(options...).Fields(ctx, doc, component)
}
