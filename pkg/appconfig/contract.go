package appconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NamazuStudios/elements-formgen/pkg/resource"
	"github.com/NamazuStudios/elements-formgen/pkg/validation"
)

// Kind identifies an application configuration type.
type Kind string

const (
	KindMatchmaking Kind = "matchmaking"
	KindGooglePlay  Kind = "google_play"
	KindFacebook    Kind = "facebook"
	KindAppleIAP    Kind = "ios"
	KindFirebase    Kind = "firebase"
	KindOculus      Kind = "oculus"
)

// Contract is the validation contract of one configuration type.
type Contract struct {
	Kind        Kind
	Label       string
	Fields      []resource.FieldSchema
	Refinements []resource.Refinement
}

// Ruleset builds the contract's ruleset for mode.
func (c Contract) Ruleset(mode resource.Mode) *resource.Ruleset {
	opts := make([]resource.Option, 0, len(c.Refinements))
	for _, refine := range c.Refinements {
		opts = append(opts, resource.WithRefinement(refine))
	}
	return resource.BuildValidationSchema(c.Fields, mode, opts...)
}

// Validate checks values against the field rules and the refinements.
func (c Contract) Validate(mode resource.Mode, values map[string]any) validation.Result {
	return c.Ruleset(mode).Validate(values)
}

// Submission returns the payload to send for values in mode.
func (c Contract) Submission(mode resource.Mode, values map[string]any) map[string]any {
	return c.Ruleset(mode).Submission(values)
}

var registry = map[Kind]Contract{
	KindMatchmaking: matchmaking(),
	KindGooglePlay:  googlePlay(),
	KindFacebook:    facebook(),
	KindAppleIAP:    appleIAP(),
	KindFirebase:    firebase(),
	KindOculus:      oculus(),
}

// Lookup returns the contract registered for kind. Kinds are matched
// case-insensitively.
func Lookup(kind Kind) (Contract, bool) {
	contract, ok := registry[Kind(strings.ToLower(strings.TrimSpace(string(kind))))]
	if !ok {
		return Contract{}, false
	}
	contract.Fields = append([]resource.FieldSchema(nil), contract.Fields...)
	return contract, true
}

// MustLookup is Lookup for kinds known at compile time.
func MustLookup(kind Kind) Contract {
	contract, ok := Lookup(kind)
	if !ok {
		panic(fmt.Sprintf("appconfig: unknown configuration kind %q", kind))
	}
	return contract
}

// Kinds lists the registered configuration kinds in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for kind := range registry {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
