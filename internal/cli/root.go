// Package cli implements the elements-formgen command tree.
package cli

import (
	"errors"
	"runtime"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/NamazuStudios/elements-formgen/internal/config"
	"github.com/NamazuStudios/elements-formgen/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

// errInvalid marks a run that completed but found invalid values. The
// details have already been printed.
var errInvalid = errors.New("values are invalid")

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     zerolog.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "elements-formgen",
		Short: "Validate and fill Elements admin forms from the command line",
		Long: color.CyanString(`elements-formgen - Elements admin form engine

Validates metadata against metadata specs, derives resource rulesets from
OpenAPI components or application configuration contracts, fills metadata
interactively and manages saved drafts.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./elements-formgen.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newValidateCommand(a))
	root.AddCommand(newDefaultsCommand(a))
	root.AddCommand(newRulesCommand(a))
	root.AddCommand(newCheckCommand(a))
	root.AddCommand(newFillCommand(a))
	root.AddCommand(newSpecsCommand(a))
	root.AddCommand(newDraftsCommand(a))
	root.AddCommand(newLintCommand(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			titleColor.Fprint(out, "elements-formgen version: ")
			cmd.Println(Version)
			titleColor.Fprint(out, "Git commit: ")
			cmd.Println(GitCommit)
			titleColor.Fprint(out, "Go version: ")
			cmd.Println(runtime.Version())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}
