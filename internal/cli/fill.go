package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/NamazuStudios/elements-formgen/pkg/form"
	"github.com/NamazuStudios/elements-formgen/pkg/prompt"
)

func newFillCommand(a *app) *cobra.Command {
	var (
		spec   specFlags
		values string
		out    string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill metadata interactively, one prompt per spec property",
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
			prefill, err := a.loadValues(ctx, values)
			if err != nil {
				return err
			}

			opts := []prompt.Option{prompt.WithLogger(a.logger)}
			if strict {
				opts = append(opts, prompt.WithStrictShapes())
			}
			filled, err := prompt.New(opts...).Fill(ctx, resolved, prefill)
			var verr *form.ValidationError
			if errors.As(err, &verr) {
				printIssues(cmd.OutOrStdout(), verr.Result)
				return errInvalid
			}
			if err != nil {
				return err
			}

			if out == "" {
				return printJSON(cmd.OutOrStdout(), filled)
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := printJSON(file, filled); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "metadata written to %s", out)
			return nil
		},
	}
	addSpecFlags(cmd, &spec)
	cmd.Flags().StringVar(&values, "values", "", "values used as prompt defaults")
	cmd.Flags().StringVar(&out, "out", "", "write the filled metadata to this file instead of stdout")
	cmd.Flags().BoolVar(&strict, "strict", false, "also check value shapes against property types")
	return cmd
}
