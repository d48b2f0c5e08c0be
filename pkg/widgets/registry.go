// Package widgets picks the input widget used to collect a metadata property.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText    = "text"
	WidgetNumber  = "number"
	WidgetConfirm = "confirm"
	WidgetList    = "list"
	WidgetGroup   = "group"
	WidgetJSON    = "json"
)

// Matcher decides whether a widget should collect the supplied property.
type Matcher func(prop metadata.SpecProperty) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for properties from registered matchers. Higher
// priority wins; ties fall back to registration order. Properties no matcher
// accepts use WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. The
// latest registration of a name does not replace earlier ones; priority
// decides.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a property.
func (r *Registry) Resolve(prop metadata.SpecProperty) string {
	if r == nil {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(prop) {
			return entry.name
		}
	}
	return WidgetText
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetGroup, 90, func(prop metadata.SpecProperty) bool {
		return prop.HasChildren()
	})
	r.Register(WidgetConfirm, 80, func(prop metadata.SpecProperty) bool {
		return prop.Type == metadata.TypeBoolean
	})
	r.Register(WidgetList, 70, func(prop metadata.SpecProperty) bool {
		return prop.Type == metadata.TypeArray || prop.Type == metadata.TypeTags
	})
	r.Register(WidgetNumber, 60, func(prop metadata.SpecProperty) bool {
		return prop.Type == metadata.TypeNumber
	})
	r.Register(WidgetJSON, 50, func(prop metadata.SpecProperty) bool {
		return prop.Type == metadata.TypeObject
	})
}
