package form

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/NamazuStudios/elements-formgen/pkg/drafts"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/validation"
	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("form: values are invalid")

// ErrNoDraftStore is returned by draft operations when no store is configured.
var ErrNoDraftStore = errors.New("form: no draft store configured")

// ValidationError carries the failing result of a submit attempt.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form: %d invalid field(s)", len(e.Result.Errors))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Option configures a form session.
type Option func(*options)

type options struct {
	logger        zerolog.Logger
	store         drafts.Store
	strict        bool
	evaluator     visibility.Evaluator
	refinements   []resource.Refinement
	metadataField string
	metadataSpec  *metadata.MetadataSpec
}

func newOptions(opts []Option) options {
	cfg := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger attaches a logger; sessions log at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDrafts enables SaveDraft, RestoreDraft and DiscardDraft.
func WithDrafts(store drafts.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithStrictShapes turns on shape checks for metadata values.
func WithStrictShapes() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithEvaluator replaces the conditional visibility evaluator of resource
// forms.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(o *options) {
		o.evaluator = evaluator
	}
}

// WithRefinement adds a cross-field check to resource forms.
func WithRefinement(refinement resource.Refinement) Option {
	return func(o *options) {
		o.refinements = append(o.refinements, refinement)
	}
}

// WithMetadata validates the object held by field against spec as part of a
// resource form, reporting errors under "field.<path>".
func WithMetadata(field string, spec *metadata.MetadataSpec) Option {
	return func(o *options) {
		o.metadataField = field
		o.metadataSpec = spec
	}
}

func (o options) validateOptions() []metadata.ValidateOption {
	if o.strict {
		return []metadata.ValidateOption{metadata.WithStrictShapes()}
	}
	return nil
}
