package parser

import (
	"fmt"
	"math"
	"strings"

	pkgopenapi "github.com/NamazuStudios/elements-formgen/pkg/openapi"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/visibility"
)

func validationGroups(ext map[string]any) (*resource.ValidationGroups, error) {
	raw, ok := ext[pkgopenapi.ExtValidationGroups]
	if !ok || raw == nil {
		return nil, nil
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", pkgopenapi.ExtValidationGroups)
	}

	var groups resource.ValidationGroups
	for key, value := range mapped {
		directive, err := parseDirective(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", pkgopenapi.ExtValidationGroups, key, err)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "insert":
			groups.Insert = directive
		case "create":
			groups.Create = directive
		case "update":
			groups.Update = directive
		default:
			return nil, fmt.Errorf("%s: unknown group %q", pkgopenapi.ExtValidationGroups, key)
		}
	}
	return &groups, nil
}

func parseDirective(value any) (resource.Directive, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("directive must be a string, got %T", value)
	}
	switch resource.Directive(strings.TrimSpace(s)) {
	case resource.DirectiveNone:
		return resource.DirectiveNone, nil
	case resource.DirectiveNotNull:
		return resource.DirectiveNotNull, nil
	case resource.DirectiveNull:
		return resource.DirectiveNull, nil
	default:
		return "", fmt.Errorf("unknown directive %q", s)
	}
}

func conditionalVisibility(ext map[string]any) (*visibility.Condition, error) {
	raw, ok := ext[pkgopenapi.ExtConditionalVisibility]
	if !ok || raw == nil {
		return nil, nil
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", pkgopenapi.ExtConditionalVisibility)
	}
	dependsOn, _ := mapped["dependsOn"].(string)
	if strings.TrimSpace(dependsOn) == "" {
		return nil, fmt.Errorf("%s.dependsOn is required", pkgopenapi.ExtConditionalVisibility)
	}
	return &visibility.Condition{
		DependsOn: strings.TrimSpace(dependsOn),
		ShowWhen:  mapped["showWhen"],
	}, nil
}

func orderOf(ext map[string]any) (int, bool) {
	switch v := ext[pkgopenapi.ExtOrder].(type) {
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
