package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
	"github.com/NamazuStudios/elements-formgen/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	inputPos     int
	confirmPos   int
	defaults     []string
	infoMessages []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type abortDriver struct{ stubDriver }

func (abortDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}

func playerSpec() *metadata.MetadataSpec {
	return &metadata.MetadataSpec{
		ID:   "player",
		Name: "Player",
		Properties: []metadata.SpecProperty{
			{Name: "nickname", DisplayName: "Nickname", Type: metadata.TypeString, Required: true},
			{Name: "level", Type: metadata.TypeNumber, DefaultValue: float64(1)},
			{Name: "vip", Type: metadata.TypeBoolean},
			{Name: "tags", Type: metadata.TypeTags},
			{Name: "stats", DisplayName: "Stats", Type: metadata.TypeObject, Properties: []metadata.SpecProperty{
				{Name: "hp", Type: metadata.TypeNumber, Required: true},
			}},
			{Name: "extra", Type: metadata.TypeObject},
		},
	}
}

func TestFillPromptsInDeclarationOrder(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:  []string{"", "neo", "abc", "", "a, b,,c", "100", "not json", `{"k":"v"}`},
		confirm: []bool{true},
	}
	filler := New(WithPromptDriver(driver))

	values, err := filler.Fill(context.Background(), playerSpec(), nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := metadata.ValueTree{
		"nickname": "neo",
		"level":    float64(1),
		"vip":      true,
		"tags":     []string{"a", "b", "c"},
		"stats":    map[string]any{"hp": float64(100)},
		"extra":    map[string]any{"k": "v"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"Invalid nickname: required",
		"Invalid level: must be a number",
		"Stats",
		"Invalid extra: must be a JSON object",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.defaults[2] != "1" {
		t.Fatalf("expected the level prompt to default to 1, got %q", driver.defaults[2])
	}
}

func TestFillHonoursCustomWidgets(t *testing.T) {
	t.Parallel()

	registry := widgets.NewRegistry()
	registry.Register(widgets.WidgetList, 100, func(prop metadata.SpecProperty) bool {
		return prop.Name == "aliases"
	})
	spec := &metadata.MetadataSpec{
		ID:         "alias",
		Properties: []metadata.SpecProperty{{Name: "aliases", Type: metadata.TypeString}},
	}
	driver := &stubDriver{inputs: []string{"x, y"}}

	values, err := New(WithPromptDriver(driver), WithWidgets(registry)).Fill(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff(metadata.ValueTree{"aliases": []string{"x", "y"}}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFillUsesPrefillAsDefaults(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:  []string{"trinity", "", "", "5", ""},
		confirm: []bool{false},
	}
	prefill := metadata.ValueTree{
		"nickname": "trinity",
		"tags":     []any{"x", "y"},
		"stats":    map[string]any{"hp": float64(5)},
		"extra":    map[string]any{"a": float64(1)},
	}

	values, err := New(WithPromptDriver(driver)).Fill(context.Background(), playerSpec(), prefill)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	wantDefaults := []string{"trinity", "1", "x, y", "5", `{"a":1}`}
	if diff := cmp.Diff(wantDefaults, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"x", "y"}, values["tags"]); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestFillReportsInvalidResult(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:  []string{"neo", "", "", "1", ""},
		confirm: []bool{false},
	}
	prefill := metadata.ValueTree{"tags": "not-a-list"}

	values, err := New(WithPromptDriver(driver), WithStrictShapes()).Fill(context.Background(), playerSpec(), prefill)
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := verr.Result.Errors["tags"]; got != "tags must be a list of strings" {
		t.Fatalf("unexpected tags error %q", got)
	}
	if values["nickname"] != "neo" {
		t.Fatalf("expected collected values to be returned, got %#v", values)
	}
}

func TestFillAborted(t *testing.T) {
	t.Parallel()

	_, err := New(WithPromptDriver(&abortDriver{})).Fill(context.Background(), playerSpec(), nil)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFillWithoutSpec(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{}
	prefill := metadata.ValueTree{"free": "form"}
	values, err := New(WithPromptDriver(driver)).Fill(context.Background(), nil, prefill)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff(prefill, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if driver.inputPos != 0 {
		t.Fatalf("expected no prompts")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(WithPromptDriver(driver)).Fill(ctx, playerSpec(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
