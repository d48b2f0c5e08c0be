package form

import (
	"github.com/rs/zerolog"

	"github.com/NamazuStudios/elements-formgen/pkg/feedback"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// MetadataForm edits a free-form metadata tree, optionally constrained by a
// MetadataSpec.
type MetadataForm struct {
	spec   *metadata.MetadataSpec
	values metadata.ValueTree
	result validation.Result
	opts   options
	logger zerolog.Logger
}

// NewMetadataForm starts a session over a copy of initial with the defaults
// of spec applied.
func NewMetadataForm(spec *metadata.MetadataSpec, initial metadata.ValueTree, opts ...Option) *MetadataForm {
	cfg := newOptions(opts)
	f := &MetadataForm{
		opts:   cfg,
		logger: cfg.logger.With().Str("component", "metadata_form").Logger(),
		result: validation.Valid(),
	}
	f.values = metadata.Reselect(nil, spec, initial)
	f.spec = spec
	return f
}

// Spec returns the selected spec, nil for free-form metadata.
func (f *MetadataForm) Spec() *metadata.MetadataSpec {
	return f.spec
}

// Select switches to spec. Selecting a different spec discards the current
// values; reselecting the same spec only fills in missing defaults.
func (f *MetadataForm) Select(spec *metadata.MetadataSpec) {
	prev := f.spec
	f.values = metadata.Reselect(prev, spec, f.values)
	f.spec = spec
	f.result = validation.Valid()

	f.logger.Debug().
		Str("from", specID(prev)).
		Str("to", specID(spec)).
		Int("values", len(f.values)).
		Msg("metadata spec selected")
}

// Set writes value at a dotted path. Trees returned by earlier Values calls
// are left untouched.
func (f *MetadataForm) Set(path string, value any) error {
	next, err := metadata.Set(f.values, path, value)
	if err != nil {
		return err
	}
	f.values = next
	return nil
}

// Get reads the value at a dotted path.
func (f *MetadataForm) Get(path string) (any, bool) {
	return metadata.Get(f.values, path)
}

// Values returns a deep copy of the current tree.
func (f *MetadataForm) Values() metadata.ValueTree {
	return metadata.CloneTree(f.values)
}

// Validate checks the current tree and remembers the result.
func (f *MetadataForm) Validate() validation.Result {
	f.result = metadata.Validate(f.spec, f.values, f.opts.validateOptions()...)
	f.logger.Debug().
		Str("spec", specID(f.spec)).
		Bool("valid", f.result.Valid).
		Int("errors", len(f.result.Errors)).
		Msg("metadata validated")
	return f.result
}

// Errors returns the path keyed messages of the last validation.
func (f *MetadataForm) Errors() map[string]string {
	return copyErrors(f.result.Errors)
}

// Submit validates and returns the tree to send.
func (f *MetadataForm) Submit() (metadata.ValueTree, error) {
	if result := f.Validate(); !result.Valid {
		return nil, &ValidationError{Result: result}
	}
	return f.Values(), nil
}

// ApplyServerErrors merges a server error payload into the last result.
func (f *MetadataForm) ApplyServerErrors(payload map[string][]string) validation.Result {
	mapping := feedback.MapErrorPayload(metadata.Paths(f.spec), payload)
	f.result = feedback.Merge(f.result, mapping)
	return f.result
}

func specID(spec *metadata.MetadataSpec) string {
	if spec == nil {
		return ""
	}
	return spec.ID
}

func copyErrors(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(errs))
	for path, message := range errs {
		out[path] = message
	}
	return out
}
