package formgen

import (
	"context"

	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	"github.com/NamazuStudios/elements-formgen/pkg/orchestrator"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// Request aliases orchestrator.Request for callers of the top-level package.
type Request = orchestrator.Request

// Transformer aliases orchestrator.Transformer.
type Transformer = orchestrator.Transformer

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// OpenForm loads the OpenAPI source and opens a form over the named component
// schema. It is the simplest entry point for callers that just want a form
// session.
func OpenForm(ctx context.Context, source loader.Source, component string, mode resource.Mode, itemID string, options ...orchestrator.Option) (*form.ResourceForm, error) {
	return orchestrator.New(options...).Open(ctx, orchestrator.Request{
		Source:    source,
		Component: component,
		Mode:      mode,
		ItemID:    itemID,
	})
}

// OpenFormFromDocument opens a form over a pre-loaded document, bypassing the
// loader stage.
func OpenFormFromDocument(ctx context.Context, doc loader.Document, component string, mode resource.Mode, itemID string, options ...orchestrator.Option) (*form.ResourceForm, error) {
	return orchestrator.New(options...).Open(ctx, orchestrator.Request{
		Document:  &doc,
		Component: component,
		Mode:      mode,
		ItemID:    itemID,
	})
}

// WithSchemaTransformer registers a field transformer that can be passed to
// OpenForm alongside other orchestrator options.
func WithSchemaTransformer(t Transformer) orchestrator.Option {
	return orchestrator.WithSchemaTransformer(t)
}
