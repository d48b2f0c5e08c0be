// Package resource turns per-resource field descriptors into mode-aware
// validation rulesets. A field's visibility and required-ness depend on the
// form mode (create or update) and on its validation groups: "null" hides a
// field in that mode, "notNull" makes it required. The generic Required flag
// only applies when creating; fields required at creation are often immutable
// afterwards and are not forced again on every edit.
//
// Rules are a closed set of variants (see Rule) selected per field in a fixed
// precedence order by BuildValidationSchema. Conditionally visible fields are
// evaluated against the current sibling values and, while hidden, are neither
// validated nor submitted.
package resource
