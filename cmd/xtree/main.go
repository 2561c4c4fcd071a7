package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by -ldflags "-X main.Version=... -X main.Commit=... -X main.Date=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xtree",
		Short: "xtree red-black tree toolkit",
		Long: `xtree drives the arena backed red-black tree engine.

Commands:
  stress    Randomized insert and erase rounds with invariant validation
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newStressCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "xtree %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
