package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/NamazuStudios/elements-formgen/internal/config"
	"github.com/NamazuStudios/elements-formgen/pkg/drafts"
	"github.com/NamazuStudios/elements-formgen/pkg/drafts/redisstore"
	"github.com/NamazuStudios/elements-formgen/pkg/drafts/sqlitestore"
	"github.com/NamazuStudios/elements-formgen/pkg/resource"
)

// openStore builds the configured draft store. The memory backend only lives
// for the current process.
func (a *app) openStore(ctx context.Context) (drafts.Store, func(), error) {
	cfg := a.cfg.Drafts
	switch cfg.Backend {
	case config.BackendRedis:
		store, err := redisstore.New(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.BackendSQLite:
		store, err := sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		a.logger.Warn().Msg("drafts use the memory backend and are lost when the command exits")
		return drafts.NewMemoryStore(), func() {}, nil
	}
}

type keyFlags struct {
	resource string
	mode     string
	itemID   string
}

func (f keyFlags) key() (drafts.Key, error) {
	mode, ok := resource.ParseMode(f.mode)
	if !ok {
		return drafts.Key{}, fmt.Errorf("unknown mode %q", f.mode)
	}
	key := drafts.Key{Resource: f.resource, Mode: string(mode), ItemID: f.itemID}
	if mode == resource.ModeCreate {
		key.ItemID = ""
	}
	return key, key.Validate()
}

func addKeyFlags(cmd *cobra.Command, flags *keyFlags) {
	cmd.Flags().StringVar(&flags.resource, "resource", "", "resource name")
	cmd.Flags().StringVar(&flags.mode, "mode", string(resource.ModeCreate), "form mode: create or update")
	cmd.Flags().StringVar(&flags.itemID, "item-id", "", "edited item id (update mode)")
}

func newDraftsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved form drafts",
	}
	cmd.AddCommand(newDraftsSaveCommand(a))
	cmd.AddCommand(newDraftsShowCommand(a))
	cmd.AddCommand(newDraftsDeleteCommand(a))
	cmd.AddCommand(newDraftsListCommand(a))
	return cmd
}

func newDraftsSaveCommand(a *app) *cobra.Command {
	var (
		flags  keyFlags
		values string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save values as a draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			key, err := flags.key()
			if err != nil {
				return err
			}
			tree, err := a.loadValues(ctx, values)
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := store.Save(ctx, key, tree); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "draft %s saved", key)
			return nil
		},
	}
	addKeyFlags(cmd, &flags)
	cmd.Flags().StringVar(&values, "values", "", "values file or URL")
	return cmd
}

func newDraftsShowCommand(a *app) *cobra.Command {
	var flags keyFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a saved draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			key, err := flags.key()
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			draft, err := store.Load(ctx, key)
			if errors.Is(err, drafts.ErrNotFound) {
				printWarn(cmd.ErrOrStderr(), "no draft saved for %s", key)
				return err
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), draft)
		},
	}
	addKeyFlags(cmd, &flags)
	return cmd
}

func newDraftsDeleteCommand(a *app) *cobra.Command {
	var flags keyFlags
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a saved draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			key, err := flags.key()
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := store.Delete(ctx, key); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "draft %s deleted", key)
			return nil
		},
	}
	addKeyFlags(cmd, &flags)
	return cmd
}

func newDraftsListCommand(a *app) *cobra.Command {
	var resourceName string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts (sqlite backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.Drafts.Backend != config.BackendSQLite {
				return fmt.Errorf("drafts list requires the sqlite backend, configured: %s", a.cfg.Drafts.Backend)
			}
			store, err := sqlitestore.Open(a.cfg.Drafts.SQLite.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			keys, err := store.Keys(ctx, resourceName)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tMODE\tITEM\tSAVED")
			for _, key := range keys {
				draft, err := store.Load(ctx, key)
				if err != nil {
					return err
				}
				item := key.ItemID
				if item == "" {
					item = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key.Resource, key.Mode, item, draft.SavedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&resourceName, "resource", "", "only list drafts of this resource")
	return cmd
}
