package metadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// ValidateSpec checks the structural invariants of a spec document: known
// types, non-empty unique sibling names, and children only under OBJECT.
func ValidateSpec(spec *MetadataSpec) error {
	if spec == nil {
		return nil
	}
	var errs []error
	checkProperties(spec.Properties, "", &errs)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("metadata: invalid spec %q: %w", spec.ID, errors.Join(errs...))
}

func checkProperties(props []SpecProperty, prefix string, errs *[]error) {
	seen := make(map[string]struct{}, len(props))
	for idx, prop := range props {
		name := strings.TrimSpace(prop.Name)
		if name == "" {
			*errs = append(*errs, fmt.Errorf("property %d under %q has no name", idx, prefix))
			continue
		}
		path := validation.JoinPath(prefix, name)
		if _, dup := seen[name]; dup {
			*errs = append(*errs, fmt.Errorf("duplicate property %q", path))
		}
		seen[name] = struct{}{}

		if !prop.Type.Valid() {
			*errs = append(*errs, fmt.Errorf("property %q has unknown type %q", path, prop.Type))
		}
		if prop.Type != TypeObject && len(prop.Properties) > 0 {
			*errs = append(*errs, fmt.Errorf("property %q of type %s declares child properties", path, prop.Type))
		}
		if len(prop.Properties) > 0 {
			checkProperties(prop.Properties, path, errs)
		}
	}
}
