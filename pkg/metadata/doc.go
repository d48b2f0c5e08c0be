// Package metadata interprets server-declared metadata specifications: trees of
// named properties typed with the closed STRING/NUMBER/BOOLEAN/ARRAY/ENUM/OBJECT/TAGS
// vocabulary. It validates value trees against a spec (required-ness, recursing
// into OBJECT children with dotted error paths) and fills empty slots from the
// spec's default values.
//
// A nil spec, or a spec without properties, describes free-form metadata and
// always validates. Every function here is synchronous and side-effect free
// except ApplyDefaults, which updates the tree it is given in place; use
// WithDefaults for a rebuilt copy.
package metadata
