package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NamazuStudios/elements-formgen/pkg/appconfig"
	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/loader"
	"github.com/NamazuStudios/elements-formgen/pkg/orchestrator"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// fieldFlags selects where resource fields come from. Exactly one of
// openapi, fields and contract is used.
type fieldFlags struct {
	openapi   string
	component string
	operation string
	fields    string
	contract  string
	mode      string
}

func addFieldFlags(cmd *cobra.Command, flags *fieldFlags) {
	cmd.Flags().StringVar(&flags.openapi, "openapi", "", "OpenAPI document file or URL")
	cmd.Flags().StringVar(&flags.component, "component", "", "component schema to read fields from (with --openapi)")
	cmd.Flags().StringVar(&flags.operation, "operation", "", "operation whose request body holds the fields (with --openapi)")
	cmd.Flags().StringVar(&flags.fields, "fields", "", "field list file or URL")
	cmd.Flags().StringVar(&flags.contract, "contract", "", "application configuration contract (matchmaking, google_play, facebook, ios, firebase, oculus)")
	cmd.Flags().StringVar(&flags.mode, "mode", string(resource.ModeCreate), "form mode: create or update")
}

// fieldSet is a resolved field source.
type fieldSet struct {
	name        string
	mode        resource.Mode
	fields      []resource.FieldSchema
	refinements []resource.Refinement
}

func (a *app) resolveFields(ctx context.Context, flags fieldFlags) (fieldSet, error) {
	mode, ok := resource.ParseMode(flags.mode)
	if !ok {
		return fieldSet{}, fmt.Errorf("unknown mode %q", flags.mode)
	}

	selected := 0
	for _, v := range []string{flags.openapi, flags.fields, flags.contract} {
		if v != "" {
			selected++
		}
	}
	if selected != 1 {
		return fieldSet{}, errors.New("exactly one of --openapi, --fields and --contract is required")
	}

	switch {
	case flags.contract != "":
		contract, ok := appconfig.Lookup(appconfig.Kind(flags.contract))
		if !ok {
			return fieldSet{}, fmt.Errorf("unknown contract %q", flags.contract)
		}
		return fieldSet{name: string(contract.Kind), mode: mode, fields: contract.Fields, refinements: contract.Refinements}, nil

	case flags.fields != "":
		doc, err := a.loadDocument(ctx, flags.fields)
		if err != nil {
			return fieldSet{}, err
		}
		fields, err := loader.DecodeFieldSchemas(doc)
		if err != nil {
			return fieldSet{}, err
		}
		return fieldSet{name: doc.Location(), mode: mode, fields: fields}, nil

	default:
		src, err := loader.ParseSource(flags.openapi)
		if err != nil {
			return fieldSet{}, err
		}
		orch := orchestrator.New(orchestrator.WithLoader(a.loader()), orchestrator.WithLogger(a.logger))
		fields, err := orch.Fields(ctx, orchestrator.Request{
			Source:      src,
			Component:   flags.component,
			OperationID: flags.operation,
		})
		if err != nil {
			return fieldSet{}, err
		}
		name := flags.component
		if name == "" {
			name = flags.operation
		}
		return fieldSet{name: name, mode: mode, fields: fields}, nil
	}
}

func newRulesCommand(a *app) *cobra.Command {
	var flags fieldFlags
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the validation rules derived for a resource in a mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := a.resolveFields(cmd.Context(), flags)
			if err != nil {
				return err
			}
			ruleset := resource.BuildValidationSchema(set.fields, set.mode)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tRULE\tREQUIRED\tCONDITION")
			for _, entry := range ruleset.Entries() {
				condition := "-"
				if cond := entry.Field.ConditionalVisibility; !cond.Empty() {
					condition = fmt.Sprintf("%s = %v", cond.DependsOn, cond.ShowWhen)
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", entry.Field.Name, ruleName(entry.Rule), entry.Required, condition)
			}
			return w.Flush()
		},
	}
	addFieldFlags(cmd, &flags)
	return cmd
}

// ruleName reports the base rule below the required/optional wrapper.
func ruleName(rule resource.Rule) resource.RuleKind {
	switch r := rule.(type) {
	case resource.Required:
		return r.Inner.Kind()
	case resource.Optional:
		return r.Inner.Kind()
	default:
		return rule.Kind()
	}
}

func newCheckCommand(a *app) *cobra.Command {
	var (
		flags     fieldFlags
		values    string
		itemID    string
		name      string
		metaField string
		spec      specFlags
		saveDraft bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate resource values and print the submission payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			set, err := a.resolveFields(ctx, flags)
			if err != nil {
				return err
			}
			tree, err := a.loadValues(ctx, values)
			if err != nil {
				return err
			}
			if name == "" {
				name = set.name
			}

			opts := []form.Option{form.WithLogger(a.logger)}
			for _, refine := range set.refinements {
				opts = append(opts, form.WithRefinement(refine))
			}
			if metaField != "" {
				metaSpec, err := a.resolveSpec(ctx, spec)
				if err != nil {
					if spec.id == "" || spec.path != "" {
						return err
					}
					printWarn(cmd.ErrOrStderr(), "%v; validating as unconstrained metadata", err)
					metaSpec = nil
				}
				opts = append(opts, form.WithMetadata(metaField, metaSpec))
			}
			if saveDraft {
				store, closeStore, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer closeStore()
				opts = append(opts, form.WithDrafts(store))
			}

			f, err := form.NewResourceForm(name, set.mode, itemID, set.fields, tree, opts...)
			if err != nil {
				return err
			}

			payload, err := f.Submit()
			var verr *form.ValidationError
			if errors.As(err, &verr) {
				printIssues(cmd.OutOrStdout(), verr.Result)
				if saveDraft {
					if err := f.SaveDraft(ctx); err != nil {
						return err
					}
					printWarn(cmd.ErrOrStderr(), "draft saved as %s", f.DraftKey())
				}
				return errInvalid
			}
			if err != nil {
				return err
			}
			if saveDraft {
				if err := f.DiscardDraft(ctx); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	addFieldFlags(cmd, &flags)
	addSpecFlags(cmd, &spec)
	cmd.Flags().StringVar(&values, "values", "", "resource values file or URL")
	cmd.Flags().StringVar(&itemID, "item-id", "", "id of the edited item (required in update mode)")
	cmd.Flags().StringVar(&name, "resource", "", "resource name used for drafts (defaults to the field source)")
	cmd.Flags().StringVar(&metaField, "metadata-field", "", "field holding metadata validated against --spec/--spec-id")
	cmd.Flags().BoolVar(&saveDraft, "save-draft", false, "save invalid values as a draft and discard it once they pass")
	return cmd
}
