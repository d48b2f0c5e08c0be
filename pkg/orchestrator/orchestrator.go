package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	internalLoader "github.com/NamazuStudios/elements-formgen/internal/loader"
	internalParser "github.com/NamazuStudios/elements-formgen/internal/openapi/parser"
	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	pkgopenapi "github.com/NamazuStudios/elements-formgen/pkg/openapi"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(l loader.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithSchemaTransformer registers a Transformer that can patch the parsed
// fields before the form is built. Transformers run in registration order.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithFormOptions sets options passed to every form the orchestrator opens.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from OpenAPI document to form
// session. Missing dependencies are filled with the built-in implementations.
type Orchestrator struct {
	loader       loader.Loader
	parser       pkgopenapi.Parser
	transformers []Transformer
	formOptions  []form.Option
	logger       zerolog.Logger
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = internalLoader.New(loader.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	return o
}

// Request describes the inputs required to open a form for a resource.
type Request struct {
	// Source identifies where the OpenAPI document lives. Optional when Document
	// is supplied.
	Source loader.Source

	// Document allows callers to bypass the loader.
	Document *loader.Document

	// Component selects a component schema. Exactly one of Component and
	// OperationID is required.
	Component string

	// OperationID selects the request body of an operation.
	OperationID string

	// Resource names the form for draft storage. Defaults to Component or
	// OperationID.
	Resource string

	Mode   resource.Mode
	ItemID string

	// Values seeds the form.
	Values map[string]any

	// FormOptions are appended to the orchestrator level form options.
	FormOptions []form.Option
}

// Fields resolves the document and returns the transformed fields of the
// requested component or operation.
func (o *Orchestrator) Fields(ctx context.Context, req Request) ([]resource.FieldSchema, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	component := strings.TrimSpace(req.Component)
	operationID := strings.TrimSpace(req.OperationID)
	switch {
	case component == "" && operationID == "":
		return nil, errors.New("orchestrator: component or operation id is required")
	case component != "" && operationID != "":
		return nil, errors.New("orchestrator: component and operation id are mutually exclusive")
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	var fields []resource.FieldSchema
	if component != "" {
		fields, err = o.parser.Fields(ctx, doc, component)
	} else {
		fields, err = o.parser.RequestFields(ctx, doc, operationID)
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse fields: %w", err)
	}

	for _, t := range o.transformers {
		if err := t.Transform(ctx, &fields); err != nil {
			return nil, fmt.Errorf("orchestrator: transform fields: %w", err)
		}
	}

	o.logger.Debug().
		Str("source", doc.Location()).
		Str("component", component).
		Str("operation", operationID).
		Int("fields", len(fields)).
		Msg("fields resolved")
	return fields, nil
}

// Open resolves the fields for req and starts a form session over them.
func (o *Orchestrator) Open(ctx context.Context, req Request) (*form.ResourceForm, error) {
	fields, err := o.Fields(ctx, req)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Resource)
	if name == "" {
		name = strings.TrimSpace(req.Component)
	}
	if name == "" {
		name = strings.TrimSpace(req.OperationID)
	}

	opts := make([]form.Option, 0, len(o.formOptions)+len(req.FormOptions)+1)
	opts = append(opts, form.WithLogger(o.logger))
	opts = append(opts, o.formOptions...)
	opts = append(opts, req.FormOptions...)

	f, err := form.NewResourceForm(name, req.Mode, req.ItemID, fields, req.Values, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open form: %w", err)
	}
	return f, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (loader.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return loader.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return loader.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}
