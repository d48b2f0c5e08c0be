package loader

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeText strips markup from a display string.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := labelSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}

func sanitizeSpec(spec *metadata.MetadataSpec) {
	spec.ID = strings.TrimSpace(spec.ID)
	spec.Name = sanitizeText(spec.Name)
	sanitizeProperties(spec.Properties)
}

func sanitizeProperties(props []metadata.SpecProperty) {
	for i := range props {
		props[i].Name = strings.TrimSpace(props[i].Name)
		props[i].DisplayName = sanitizeText(props[i].DisplayName)
		props[i].Placeholder = sanitizeText(props[i].Placeholder)
		sanitizeProperties(props[i].Properties)
	}
}
