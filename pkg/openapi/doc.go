// Package openapi exposes the contract for deriving resource field descriptors
// from an OpenAPI document. The implementation lives under internal/openapi
// to keep kin-openapi types out of the public API; construct one with
// formgen.NewParser.
//
// Besides the standard schema keywords, properties may carry:
//
//	x-validation-groups:      {insert|create|update: "notNull"|"null"}
//	x-conditional-visibility: {dependsOn: <field>, showWhen: <value or list>}
//	x-order:                  <integer position>
//	x-label:                  <display label>
package openapi
