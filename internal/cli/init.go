package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/mods"
	"github.com/darkmatro/hd2sync/internal/util"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a registry file with the built-in mods",
	Long: `Write an hd2sync.toml registry file into the game root, seeded with the
built-in mod packs. Edit it to add or change mods.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	env := util.NewOsEnv()
	root, err := filepath.Abs(flagRoot)
	if err != nil {
		return fmt.Errorf("resolve game root: %w", err)
	}

	registryPath := filepath.Join(root, mods.RegistryFilename)
	if ok, err := afero.Exists(env.Fs, registryPath); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("registry file already exists: %s", registryPath)
	}

	content, err := mods.GenerateRegistry()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(env.Fs, registryPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}

	util.ProgressDone(cmd.OutOrStdout(), "Created %s\n", registryPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize the mod list.")
	return nil
}
