package appconfig

import (
	"fmt"

	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// MinMatchmakingProfiles is the smallest profile count a match can hold.
const MinMatchmakingProfiles = 2

// Fields shared by every configuration type.
func baseFields() []resource.FieldSchema {
	return []resource.FieldSchema{
		{Name: resource.IDField, Type: resource.FieldTypeString},
		{Name: "name", Label: "Name", Type: resource.FieldTypeString, Required: true, Pattern: `^[A-Za-z0-9_.\-]+$`},
		{Name: "description", Label: "Description", Type: resource.FieldTypeString},
		{Name: "parent", Label: "Application", Type: resource.FieldTypeObject, ValidationGroups: &resource.ValidationGroups{Update: resource.DirectiveNull}},
	}
}

func matchmaking() Contract {
	fields := append(baseFields(),
		resource.FieldSchema{Name: "maxProfiles", Label: "Max profiles", Type: resource.FieldTypeInteger, ValidationGroups: &resource.ValidationGroups{Create: resource.DirectiveNotNull, Update: resource.DirectiveNotNull}},
		resource.FieldSchema{Name: "success", Label: "Success callback", Type: resource.FieldTypeObject},
		resource.FieldSchema{Name: "metadata", Label: "Metadata", Type: resource.FieldTypeObject, IsMap: true},
	)
	return Contract{
		Kind:        KindMatchmaking,
		Label:       "Matchmaking",
		Fields:      fields,
		Refinements: []resource.Refinement{atLeast("maxProfiles", "Max profiles", MinMatchmakingProfiles)},
	}
}

func googlePlay() Contract {
	return Contract{
		Kind:  KindGooglePlay,
		Label: "Google Play",
		Fields: append(baseFields(),
			resource.FieldSchema{Name: "applicationId", Label: "Application ID", Type: resource.FieldTypeString, Required: true},
			resource.FieldSchema{Name: "jsonKey", Label: "JSON key", Type: resource.FieldTypeObject},
			resource.FieldSchema{Name: "productBundles", Label: "Product bundles", Type: resource.FieldTypeObject, IsArray: true},
		),
		Refinements: []resource.Refinement{keysPresent("jsonKey", "JSON key", "client_email", "private_key")},
	}
}

func facebook() Contract {
	return Contract{
		Kind:  KindFacebook,
		Label: "Facebook",
		Fields: append(baseFields(),
			resource.FieldSchema{Name: "applicationId", Label: "Application ID", Type: resource.FieldTypeString, Required: true},
			resource.FieldSchema{Name: "applicationSecret", Label: "Application secret", Type: resource.FieldTypeString, Required: true},
			resource.FieldSchema{Name: "builtinApplicationPermissions", Label: "Permissions", Type: resource.FieldTypeString, IsArray: true},
		),
	}
}

func appleIAP() Contract {
	return Contract{
		Kind:  KindAppleIAP,
		Label: "Apple IAP",
		Fields: append(baseFields(),
			resource.FieldSchema{Name: "applicationId", Label: "Bundle ID", Type: resource.FieldTypeString, Required: true},
			resource.FieldSchema{Name: "productBundles", Label: "Product bundles", Type: resource.FieldTypeObject, IsArray: true},
		),
	}
}

func firebase() Contract {
	return Contract{
		Kind:  KindFirebase,
		Label: "Firebase",
		Fields: append(baseFields(),
			resource.FieldSchema{Name: "projectId", Label: "Project ID", Type: resource.FieldTypeString, Required: true},
			resource.FieldSchema{Name: "serviceAccountCredentials", Label: "Service account credentials", Type: resource.FieldTypeObject},
		),
		Refinements: []resource.Refinement{keysPresent("serviceAccountCredentials", "Service account credentials", "project_id", "private_key")},
	}
}

func oculus() Contract {
	return Contract{
		Kind:  KindOculus,
		Label: "Oculus",
		Fields: append(baseFields(),
			resource.FieldSchema{Name: "applicationId", Label: "Application ID", Type: resource.FieldTypeString, Required: true},
			resource.FieldSchema{Name: "applicationSecret", Label: "Application secret", Type: resource.FieldTypeString, Required: true},
		),
	}
}

// atLeast rejects a numeric field below min. Missing values are left to the
// field's own required rule.
func atLeast(field, label string, min float64) resource.Refinement {
	return func(values map[string]any) []validation.Issue {
		raw, ok := values[field]
		if !ok {
			return nil
		}
		n, ok := validation.ToFloat(raw)
		if !ok || n >= min {
			return nil
		}
		return []validation.Issue{{Path: field, Message: fmt.Sprintf("%s must be at least %g", label, min)}}
	}
}

// keysPresent requires a decoded object field to carry the given keys.
func keysPresent(field, label string, keys ...string) resource.Refinement {
	return func(values map[string]any) []validation.Issue {
		obj, ok := values[field].(map[string]any)
		if !ok {
			return nil
		}
		var issues []validation.Issue
		for _, key := range keys {
			if v, exists := obj[key]; !exists || v == nil || v == "" {
				issues = append(issues, validation.Issue{Path: field, Message: fmt.Sprintf("%s is missing %q", label, key)})
			}
		}
		return issues
	}
}

