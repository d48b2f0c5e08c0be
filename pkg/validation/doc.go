// Package validation holds the result types shared by the metadata engine and
// the resource rule builder. Errors are keyed by dotted paths ("addr.zip") so
// identically named properties at different depths never collide, and messages
// keep their encounter order so renderers can display them deterministically.
package validation
