// Package loader exposes the contracts for fetching schema documents
// (metadata specs and resource field lists) from files, fs.FS entries or URLs,
// and for decoding them into the engine's types. The fetching implementation
// lives under internal/loader; construct one with formgen.NewLoader.
package loader
