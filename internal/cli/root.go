package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "inarow solves N-in-a-row games exhaustively",
		Long: `inarow builds the complete game graph of a small N-in-a-row board,
merges positions reached by different move orders, and counts the terminal
outcomes reachable from every position. Solved positions are kept in a
content-addressed store and reused by later runs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/inarow/inarow.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
