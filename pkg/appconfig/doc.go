// Package appconfig defines the field contracts of the platform's application
// configuration resources. Each Contract couples the resource fields with
// cross-field refinements, so a configuration that satisfies every field rule
// can still be rejected as a whole (for example a matchmaking configuration
// that allows fewer than two profiles).
package appconfig
