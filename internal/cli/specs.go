package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NamazuStudios/elements-formgen/pkg/client"
)

func newSpecsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Browse metadata specs stored on the Elements API",
	}
	cmd.AddCommand(newSpecsListCommand(a))
	cmd.AddCommand(newSpecsGetCommand(a))
	return cmd
}

func newSpecsListCommand(a *app) *cobra.Command {
	var opts client.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List metadata specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			page, err := c.ListMetadataSpecs(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPROPERTIES")
			for _, spec := range page.Objects {
				fmt.Fprintf(w, "%s\t%s\t%d\n", spec.ID, spec.Name, len(spec.Properties))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			total := fmt.Sprint(page.Total)
			if page.Approximation {
				total = "~" + total
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %s spec(s)\n", len(page.Objects), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "index of the first spec")
	cmd.Flags().IntVar(&opts.Count, "count", 20, "page size")
	cmd.Flags().StringVar(&opts.Search, "search", "", "search query")
	return cmd
}

func newSpecsGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print a metadata spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			spec, err := c.GetMetadataSpec(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), spec)
		},
	}
}
