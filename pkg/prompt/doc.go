// Package prompt fills a metadata tree interactively, one property at a time,
// following the declaration order of a MetadataSpec.
//
// The terminal interaction is abstracted behind PromptDriver; the default
// driver uses survey/v2 and tests substitute a scripted one.
package prompt
