package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

func addSpecFlags(cmd *cobra.Command, flags *specFlags) {
	cmd.Flags().StringVar(&flags.path, "spec", "", "metadata spec file or URL (JSON or YAML)")
	cmd.Flags().StringVar(&flags.id, "spec-id", "", "metadata spec id fetched from the API")
}

func newValidateCommand(a *app) *cobra.Command {
	var (
		spec   specFlags
		values string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate metadata values against a metadata spec",
		Long: `Validate metadata values against a metadata spec.

When the spec cannot be fetched from the API a warning is printed and the
values are treated as unconstrained metadata.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tree, err := a.loadValues(ctx, values)
			if err != nil {
				return err
			}

			resolved, err := a.resolveSpec(ctx, spec)
			if err != nil {
				if spec.id == "" || spec.path != "" {
					return err
				}
				printWarn(cmd.ErrOrStderr(), "%v; validating as unconstrained metadata", err)
				resolved = nil
			}
			if resolved.Unconstrained() {
				printWarn(cmd.ErrOrStderr(), "no spec constraints; metadata is free-form")
			}

			var opts []metadata.ValidateOption
			if strict {
				opts = append(opts, metadata.WithStrictShapes())
			}
			result := metadata.Validate(resolved, tree, opts...)
			a.logger.Debug().Bool("valid", result.Valid).Int("errors", len(result.Errors)).Msg("metadata validated")
			if !result.Valid {
				printIssues(cmd.OutOrStdout(), result)
				return errInvalid
			}
			printOK(cmd.OutOrStdout(), "metadata is valid")
			return nil
		},
	}
	addSpecFlags(cmd, &spec)
	cmd.Flags().StringVar(&values, "values", "", "metadata values file or URL")
	cmd.Flags().BoolVar(&strict, "strict", false, "also check value shapes against property types")
	return cmd
}

func newDefaultsCommand(a *app) *cobra.Command {
	var (
		spec   specFlags
		values string
	)
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print metadata values with the spec defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if spec.empty() {
				return errors.New("--spec or --spec-id is required")
			}
			resolved, err := a.resolveSpec(ctx, spec)
			if err != nil {
				return err
			}
			tree, err := a.loadValues(ctx, values)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), metadata.WithDefaults(resolved.Properties, tree))
		},
	}
	addSpecFlags(cmd, &spec)
	cmd.Flags().StringVar(&values, "values", "", "values to fill (defaults to an empty tree)")
	return cmd
}
