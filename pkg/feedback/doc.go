// Package feedback maps error payloads returned by the server onto the paths
// of the form being edited, so they can be shown inline next to the locally
// computed validation errors. Keys the form does not know about are kept as
// form-level messages rather than dropped.
package feedback
