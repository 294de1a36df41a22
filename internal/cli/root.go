// Package cli implements the hd2sync command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and Date are set at build time via ldflags
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var (
	flagRoot        string
	flagToken       string
	flagOptional    bool
	flagNoPreflight bool
)

var rootCmd = &cobra.Command{
	Use:   "hd2sync",
	Short: "hd2sync - Keep Hidden & Dangerous 2 mods in sync with their repositories",
	Long: `hd2sync keeps Hidden & Dangerous 2 mod installations in sync with their
GitHub repositories. It compares git blob SHA-1 hashes of local files against
the remote tree and downloads, overwrites or deletes only what differs.

Run without a subcommand for the interactive menu.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

// Execute runs the CLI. The context carries signal-based cancellation so an
// interrupted sync stops between file operations.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for documentation generation.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("hd2sync version %s\ncommit: %s\ndate: %s\n", Version, Commit, Date))

	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "game installation directory")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "GitHub API token (or HD2SYNC_GITHUB_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&flagOptional, "optional", false, "also sync optional mod folders")
	rootCmd.PersistentFlags().BoolVar(&flagNoPreflight, "no-preflight", false, "skip game executable and connectivity checks")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}
