package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/NamazuStudios/elements-formgen/pkg/drafts"
	"github.com/NamazuStudios/elements-formgen/pkg/feedback"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// ResourceForm edits one resource in create or update mode.
type ResourceForm struct {
	name    string
	mode    resource.Mode
	itemID  string
	fields  []resource.FieldSchema
	ruleset *resource.Ruleset
	values  map[string]any
	result  validation.Result
	opts    options
	logger  zerolog.Logger
}

// NewResourceForm builds the ruleset for fields in mode and starts a session
// over a copy of initial. Update forms must name the edited item.
func NewResourceForm(name string, mode resource.Mode, itemID string, fields []resource.FieldSchema, initial map[string]any, opts ...Option) (*ResourceForm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("form: resource name is required")
	}
	if _, ok := resource.ParseMode(string(mode)); !ok {
		return nil, fmt.Errorf("form: unknown mode %q", mode)
	}
	if mode == resource.ModeUpdate && strings.TrimSpace(itemID) == "" {
		return nil, errors.New("form: update forms require an item id")
	}
	if mode == resource.ModeCreate {
		itemID = ""
	}

	cfg := newOptions(opts)
	ruleOpts := []resource.Option{resource.WithEvaluator(cfg.evaluator)}
	for _, refine := range cfg.refinements {
		ruleOpts = append(ruleOpts, resource.WithRefinement(refine))
	}

	f := &ResourceForm{
		name:    name,
		mode:    mode,
		itemID:  itemID,
		fields:  append([]resource.FieldSchema(nil), fields...),
		ruleset: resource.BuildValidationSchema(fields, mode, ruleOpts...),
		values:  metadata.CloneTree(initial),
		result:  validation.Valid(),
		opts:    cfg,
		logger: cfg.logger.With().
			Str("component", "resource_form").
			Str("resource", name).
			Str("mode", string(mode)).
			Logger(),
	}
	if cfg.metadataSpec != nil && cfg.metadataField != "" {
		if current, ok := f.metadataTree(f.values[cfg.metadataField]); ok {
			f.values[cfg.metadataField] = metadata.Reselect(nil, cfg.metadataSpec, current)
		}
	}
	return f, nil
}

// Resource returns the resource name.
func (f *ResourceForm) Resource() string { return f.name }

// Mode returns the form mode.
func (f *ResourceForm) Mode() resource.Mode { return f.mode }

// ItemID returns the edited item id; empty when creating.
func (f *ResourceForm) ItemID() string { return f.itemID }

// Ruleset exposes the ruleset built for the form.
func (f *ResourceForm) Ruleset() *resource.Ruleset { return f.ruleset }

// Set stores value for a field. Dotted paths address nested values.
func (f *ResourceForm) Set(path string, value any) error {
	next, err := metadata.Set(f.values, path, value)
	if err != nil {
		return err
	}
	f.values = next
	return nil
}

// Values returns a deep copy of the current values.
func (f *ResourceForm) Values() map[string]any {
	return metadata.CloneTree(f.values)
}

// Visible lists the fields currently shown, in declaration order.
func (f *ResourceForm) Visible() []resource.FieldSchema {
	entries := f.ruleset.Visible(f.values)
	out := make([]resource.FieldSchema, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Field)
	}
	return out
}

// Validate runs the field rules, then the attached metadata spec if any.
func (f *ResourceForm) Validate() validation.Result {
	result := f.ruleset.Validate(f.values)
	if meta := f.metadataResult(); meta != nil {
		result = validation.Merge(result, *meta)
	}
	f.result = result
	f.logger.Debug().
		Bool("valid", result.Valid).
		Int("errors", len(result.Errors)).
		Msg("resource validated")
	return result
}

func (f *ResourceForm) metadataResult() *validation.Result {
	field := f.opts.metadataField
	if f.opts.metadataSpec == nil || field == "" {
		return nil
	}
	visible := false
	for _, entry := range f.ruleset.Visible(f.values) {
		if entry.Field.Name == field {
			visible = true
			break
		}
	}
	if !visible {
		return nil
	}

	tree, ok := f.metadataTree(f.values[field])
	if !ok {
		return nil
	}
	inner := metadata.Validate(f.opts.metadataSpec, tree, f.opts.validateOptions()...)
	var collector validation.Collector
	for _, issue := range inner.Issues {
		collector.Add(validation.JoinPath(field, issue.Path), issue.Message)
	}
	result := collector.Result()
	return &result
}

// metadataTree decodes the metadata slot through its field rule, so a JSON
// string counts as the object it encodes. Input the rule rejects reports false
// and must be left as entered.
func (f *ResourceForm) metadataTree(raw any) (map[string]any, bool) {
	if tree, ok := raw.(map[string]any); ok {
		return tree, true
	}
	if raw == nil || raw == "" {
		return nil, true
	}
	rule, ok := f.ruleset.Rule(f.opts.metadataField)
	if !ok {
		return nil, false
	}
	decoded, err := rule.Check(raw)
	if err != nil {
		return nil, false
	}
	tree, ok := decoded.(map[string]any)
	return tree, ok
}

// Errors returns the messages of the last validation keyed by path.
func (f *ResourceForm) Errors() map[string]string {
	return copyErrors(f.result.Errors)
}

// Submission returns the payload for the current values without validating.
func (f *ResourceForm) Submission() map[string]any {
	return f.ruleset.Submission(f.values)
}

// Submit validates and returns the payload to send.
func (f *ResourceForm) Submit() (map[string]any, error) {
	if result := f.Validate(); !result.Valid {
		return nil, &ValidationError{Result: result}
	}
	return f.Submission(), nil
}

// ApplyServerErrors merges a server error payload into the last result.
func (f *ResourceForm) ApplyServerErrors(payload map[string][]string) validation.Result {
	paths := f.ruleset.Paths()
	if f.opts.metadataSpec != nil && f.opts.metadataField != "" {
		for _, path := range metadata.Paths(f.opts.metadataSpec) {
			paths = append(paths, validation.JoinPath(f.opts.metadataField, path))
		}
	}
	f.result = feedback.Merge(f.result, feedback.MapErrorPayload(paths, payload))
	return f.result
}

// DraftKey returns the key drafts of this form are stored under.
func (f *ResourceForm) DraftKey() drafts.Key {
	return drafts.Key{Resource: f.name, Mode: string(f.mode), ItemID: f.itemID}
}

// SaveDraft stores the current values.
func (f *ResourceForm) SaveDraft(ctx context.Context) error {
	if f.opts.store == nil {
		return ErrNoDraftStore
	}
	if err := f.opts.store.Save(ctx, f.DraftKey(), f.values); err != nil {
		return fmt.Errorf("form: save draft: %w", err)
	}
	f.logger.Debug().Str("key", f.DraftKey().String()).Msg("draft saved")
	return nil
}

// RestoreDraft replaces the current values with the stored draft. It reports
// false when no draft exists.
func (f *ResourceForm) RestoreDraft(ctx context.Context) (bool, error) {
	if f.opts.store == nil {
		return false, ErrNoDraftStore
	}
	draft, err := f.opts.store.Load(ctx, f.DraftKey())
	if errors.Is(err, drafts.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("form: restore draft: %w", err)
	}
	f.values = metadata.CloneTree(draft.Values)
	f.result = validation.Valid()
	f.logger.Debug().
		Str("key", f.DraftKey().String()).
		Time("saved_at", draft.SavedAt).
		Msg("draft restored")
	return true, nil
}

// DiscardDraft deletes the stored draft.
func (f *ResourceForm) DiscardDraft(ctx context.Context) error {
	if f.opts.store == nil {
		return ErrNoDraftStore
	}
	if err := f.opts.store.Delete(ctx, f.DraftKey()); err != nil {
		return fmt.Errorf("form: discard draft: %w", err)
	}
	return nil
}
