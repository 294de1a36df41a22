package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/util"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <mod>",
	Short: "Remove a mod's files from the game folder",
	Long: `Remove every file a mod owns from the game installation. This is the same
reconcile as install, run against an empty remote set, so it needs no network
access and never touches files outside the mod's folders.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	deps, err := newCLIDeps(util.NewOsEnv())
	if err != nil {
		return err
	}
	mod, err := deps.findMod(args[0])
	if err != nil {
		return err
	}

	res, err := deps.syncer(cmd).Uninstall(cmd.Context(), mod)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("partial uninstall: %s", res.Summary())
	}
	return nil
}
