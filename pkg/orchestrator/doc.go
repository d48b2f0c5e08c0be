// Package orchestrator wires the loader → parser → transformer → form
// pipeline, turning an OpenAPI component or operation into a ready
// form.ResourceForm from a single entry point.
package orchestrator
