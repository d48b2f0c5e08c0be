package metadata

import (
	"fmt"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// ValidateOption tunes a validation pass.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strictShapes bool
}

// WithStrictShapes additionally checks present values against the declared
// type's shape (finite numbers, string lists for TAGS, maps for OBJECT, ...).
// The default pass only checks required-ness.
func WithStrictShapes() ValidateOption {
	return func(cfg *validateConfig) {
		cfg.strictShapes = true
	}
}

// Validate checks values against spec. A nil spec or one without properties
// is unconstrained and always valid.
func Validate(spec *MetadataSpec, values ValueTree, opts ...ValidateOption) validation.Result {
	if spec.Unconstrained() {
		return validation.Valid()
	}
	return ValidateProperties(spec.Properties, values, opts...)
}

// ValidateProperties walks props in declaration order, reporting errors at
// dotted paths.
func ValidateProperties(props []SpecProperty, values ValueTree, opts ...ValidateOption) validation.Result {
	cfg := validateConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var collector validation.Collector
	walk(props, values, "", cfg, &collector)
	return collector.Result()
}

func walk(props []SpecProperty, parent ValueTree, prefix string, cfg validateConfig, out *validation.Collector) {
	for _, prop := range props {
		path := validation.JoinPath(prefix, prop.Name)
		value := parent[prop.Name]
		missing := IsMissing(prop.Type, value)

		if prop.Required && missing {
			out.Add(path, fmt.Sprintf("%s is required", prop.Label()))
		}
		if cfg.strictShapes && !missing {
			if shape := shapeOf(prop.Type); !shape.conforms(value) {
				out.Add(path, fmt.Sprintf("%s must be %s", prop.Label(), shape.expected))
			}
		}

		if prop.HasChildren() {
			child, ok := asTree(value)
			if !ok {
				child = ValueTree{}
			}
			walk(prop.Properties, child, path, cfg, out)
		}
	}
}
