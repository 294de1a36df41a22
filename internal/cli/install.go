package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/util"
)

var installCmd = &cobra.Command{
	Use:   "install <mod>",
	Short: "Install or update a mod",
	Long: `Install or update a mod by reconciling its game folders with the remote
repository. Unchanged files are left alone, changed files are re-downloaded,
and files removed upstream are deleted locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	deps, err := newCLIDeps(util.NewOsEnv())
	if err != nil {
		return err
	}
	if err := deps.preflight(cmd.Context()); err != nil {
		return err
	}
	mod, err := deps.findMod(args[0])
	if err != nil {
		return err
	}

	res, err := deps.syncer(cmd).Install(cmd.Context(), mod)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("partial sync: %s", res.Summary())
	}
	return nil
}
