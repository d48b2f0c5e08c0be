// Package form holds editing sessions for metadata and resource forms. A
// session owns its value tree and its last validation result; updates never
// mutate trees handed out earlier. Sessions are meant to be driven by a single
// goroutine, one per open form.
package form
