package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/validation"
	"github.com/NamazuStudios/elements-formgen/pkg/widgets"
)

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver swaps the terminal driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// WithWidgets swaps the registry that picks how each property is collected.
// Widgets other than the built-in ones are collected as text.
func WithWidgets(registry *widgets.Registry) Option {
	return func(f *Filler) {
		if registry != nil {
			f.widgets = registry
		}
	}
}

// WithStrictShapes turns on shape checks for the final validation.
func WithStrictShapes() Option {
	return func(f *Filler) {
		f.formOptions = append(f.formOptions, form.WithStrictShapes())
	}
}

// Filler walks a spec and asks for each property in turn.
type Filler struct {
	driver      PromptDriver
	widgets     *widgets.Registry
	logger      zerolog.Logger
	formOptions []form.Option
}

// New constructs a Filler with defaults (survey driver, no logging).
func New(options ...Option) *Filler {
	f := &Filler{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver()
	}
	if f.widgets == nil {
		f.widgets = widgets.NewRegistry()
	}
	return f
}

// Fill applies the spec defaults over prefill, prompts for every property and
// validates the outcome. A failing validation returns the collected tree
// together with a *form.ValidationError. A nil spec returns prefill untouched.
func (f *Filler) Fill(ctx context.Context, spec *metadata.MetadataSpec, prefill metadata.ValueTree) (metadata.ValueTree, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := form.NewMetadataForm(spec, prefill, append([]form.Option{form.WithLogger(f.logger)}, f.formOptions...)...)
	if spec == nil {
		return session.Values(), nil
	}

	for _, prop := range spec.Properties {
		if err := f.promptProperty(ctx, session, prop, ""); err != nil {
			return nil, err
		}
	}

	values, err := session.Submit()
	if err != nil {
		f.logger.Debug().Err(err).Str("spec", spec.ID).Msg("filled values are invalid")
		return session.Values(), err
	}
	return values, nil
}

func (f *Filler) promptProperty(ctx context.Context, session *form.MetadataForm, prop metadata.SpecProperty, prefix string) error {
	path := validation.JoinPath(prefix, prop.Name)
	switch f.widgets.Resolve(prop) {
	case widgets.WidgetConfirm:
		return f.promptBoolean(ctx, session, prop, path)
	case widgets.WidgetNumber:
		return f.promptNumber(ctx, session, prop, path)
	case widgets.WidgetList:
		return f.promptList(ctx, session, prop, path)
	case widgets.WidgetGroup:
		if err := f.driver.Info(ctx, prop.Label()); err != nil {
			return err
		}
		for _, child := range prop.Properties {
			if err := f.promptProperty(ctx, session, child, path); err != nil {
				return err
			}
		}
		return nil
	case widgets.WidgetJSON:
		return f.promptJSON(ctx, session, prop, path)
	default:
		return f.promptString(ctx, session, prop, path)
	}
}

func (f *Filler) promptString(ctx context.Context, session *form.MetadataForm, prop metadata.SpecProperty, path string) error {
	current, _ := session.Get(path)
	return f.ask(ctx, prop, path, defaultString(current), func(input string) (any, error) {
		return input, nil
	}, session)
}

func (f *Filler) promptNumber(ctx context.Context, session *form.MetadataForm, prop metadata.SpecProperty, path string) error {
	current, _ := session.Get(path)
	return f.ask(ctx, prop, path, defaultString(current), func(input string) (any, error) {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return parsed, nil
	}, session)
}

func (f *Filler) promptList(ctx context.Context, session *form.MetadataForm, prop metadata.SpecProperty, path string) error {
	current, _ := session.Get(path)
	return f.ask(ctx, prop, path, joinList(current), func(input string) (any, error) {
		return splitList(input), nil
	}, session)
}

func (f *Filler) promptJSON(ctx context.Context, session *form.MetadataForm, prop metadata.SpecProperty, path string) error {
	current, _ := session.Get(path)
	def := ""
	if current != nil {
		if raw, err := json.Marshal(current); err == nil {
			def = string(raw)
		}
	}
	return f.ask(ctx, prop, path, def, func(input string) (any, error) {
		var out map[string]any
		if err := json.Unmarshal([]byte(input), &out); err != nil || out == nil {
			return nil, errors.New("must be a JSON object")
		}
		return out, nil
	}, session)
}

func (f *Filler) promptBoolean(ctx context.Context, session *form.MetadataForm, prop metadata.SpecProperty, path string) error {
	current, _ := session.Get(path)
	def, _ := current.(bool)
	resp, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: prop.Label(),
		Default: def,
		Help:    prop.Placeholder,
	})
	if err != nil {
		return err
	}
	return session.Set(path, resp)
}

// ask loops until parse accepts the input. Empty input keeps the current value
// unless the property is required.
func (f *Filler) ask(ctx context.Context, prop metadata.SpecProperty, path, def string, parse func(string) (any, error), session *form.MetadataForm) error {
	for {
		input, err := f.driver.Input(ctx, InputConfig{
			Message: prop.Label(),
			Default: def,
			Help:    prop.Placeholder,
		})
		if err != nil {
			return err
		}

		if strings.TrimSpace(input) == "" {
			if prop.Required {
				if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", path)); err != nil {
					return err
				}
				continue
			}
			return nil
		}

		value, err := parse(input)
		if err != nil {
			if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", path, err)); err != nil {
				return err
			}
			continue
		}
		return session.Set(path, value)
	}
}

func defaultString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func joinList(value any) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
