package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or clear the position store",
	}

	cmd.AddCommand(c.storeStatsCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeStatsCommand creates the "store stats" subcommand.
func (c *CLI) storeStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count stored positions and bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(ctx context.Context, b *backend) error {
				sum, err := store.Summarize(ctx, b.store)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStorage, err, "summarize store")
				}
				printKeyValue(c.out, "Backend", b.cfg.Store.Backend)
				if ns := b.cfg.Store.Namespace; ns != "" {
					printKeyValue(c.out, "Namespace", ns)
				}
				printKeyValue(c.out, "Positions", fmt.Sprint(sum.Keys))
				printKeyValue(c.out, "Bytes", fmt.Sprint(sum.Bytes))
				printKeyValue(c.out, "Compressed", fmt.Sprint(b.cfg.Store.Compress))
				return nil
			})
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored position",
		Long: `Clear removes every position from the configured store, or from its
namespace when one is set. Run it after an interrupted solve left
positions without outcomes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(ctx context.Context, b *backend) error {
				n, err := store.Clear(ctx, b.store)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStorage, err, "cleared %d positions before failing", n)
				}
				if n == 0 {
					printInfo(c.out, "Store is empty")
					return nil
				}
				printSuccess(c.out, "Cleared %d positions", n)
				if b.cfg.Store.Backend == store.BackendFile {
					printDetail(c.out, "Directory: %s", b.cfg.Store.Dir)
				}
				return nil
			})
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != store.BackendFile {
				return errors.New(errors.ErrCodeInvalidConfig, "store backend is %q, not file", cfg.Store.Backend)
			}
			fmt.Fprintln(c.out, cfg.Store.Dir)
			return nil
		},
	}
}
