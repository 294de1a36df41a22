package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/mods"
	"github.com/darkmatro/hd2sync/internal/util"
	"github.com/darkmatro/hd2sync/internal/version"
)

// menuAction is one choice in the interactive per-mod menu.
type menuAction string

const (
	actionInstall   menuAction = "install"
	actionUninstall menuAction = "uninstall"
	actionCheck     menuAction = "check"
	actionBack      menuAction = "back"
)

// runMenu is the interactive entry point used when hd2sync is started
// without a subcommand, mirroring how the tool is launched from the game
// folder by double-click.
func runMenu(cmd *cobra.Command, args []string) error {
	deps, err := newCLIDeps(util.NewOsEnv())
	if err != nil {
		return err
	}
	if err := deps.preflight(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	installed := version.Load(deps.Env.Fs, deps.Root)

	for {
		mod, err := promptMod(deps.Registry, installed)
		if err != nil || mod == nil {
			// Ctrl+C or explicit exit.
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		// Show where the mod stands before offering actions, like the
		// version banner the tool prints on startup.
		remote, err := deps.Client.FetchVersion(cmd.Context(), mod.Repo, mod.RefOrDefault())
		local := installed.Get(mod.Name)
		switch {
		case err != nil:
			util.ProgressWarn(out, "%s: remote version unknown (%v)\n", mod.Name, err)
		case local == "":
			util.Progress(out, "%s: not installed, remote version is %s\n", mod.Name, remote)
		case local == remote:
			util.ProgressDone(out, "%s: up to date (%s)\n", mod.Name, local)
		default:
			util.Progress(out, "%s: installed %s, remote %s\n", mod.Name, local, remote)
		}

		action, err := promptAction(mod)
		if err != nil {
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		switch action {
		case actionInstall:
			res, err := deps.syncer(cmd).Install(cmd.Context(), mod)
			if err != nil {
				util.ProgressWarn(out, "install failed: %v\n", err)
			} else if res.Ok() {
				installed = version.Load(deps.Env.Fs, deps.Root)
			}
		case actionUninstall:
			if _, err := deps.syncer(cmd).Uninstall(cmd.Context(), mod); err != nil {
				util.ProgressWarn(out, "uninstall failed: %v\n", err)
			} else {
				installed = version.Load(deps.Env.Fs, deps.Root)
			}
		case actionCheck:
			if err := runCheckFor(cmd, deps, mod); err != nil {
				util.ProgressWarn(out, "check failed: %v\n", err)
			}
		case actionBack:
		}
		fmt.Fprintln(out)
	}
}

// promptMod asks the user to pick a mod. Returns nil when the user exits.
func promptMod(registry *mods.Registry, installed version.Versions) (*mods.Mod, error) {
	const exitValue = ""

	options := make([]huh.Option[string], 0, len(registry.Mods)+1)
	for _, m := range registry.Mods {
		label := m.Name
		if m.Description != "" {
			label = fmt.Sprintf("%s - %s", m.Name, m.Description)
		}
		if v := installed.Get(m.Name); v != "" {
			label = fmt.Sprintf("%s (installed %s)", label, v)
		}
		options = append(options, huh.NewOption(label, m.Name))
	}
	options = append(options, huh.NewOption("Exit", exitValue))

	var choice string
	err := huh.NewSelect[string]().
		Title("Select a mod").
		Options(options...).
		Value(&choice).
		Run()
	if err != nil {
		return nil, err
	}
	if choice == exitValue {
		return nil, nil
	}

	mod, ok := registry.Find(choice)
	if !ok {
		return nil, errors.New("selected mod vanished from registry")
	}
	return mod, nil
}

// promptAction asks what to do with the selected mod.
func promptAction(mod *mods.Mod) (menuAction, error) {
	var choice string
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("%s: choose an action", mod.Name)).
		Options(
			huh.NewOption("Install / update", string(actionInstall)),
			huh.NewOption("Check (dry run)", string(actionCheck)),
			huh.NewOption("Uninstall", string(actionUninstall)),
			huh.NewOption("Back", string(actionBack)),
		).
		Value(&choice).
		Run()
	if err != nil {
		return actionBack, err
	}
	return menuAction(choice), nil
}

// runCheckFor prints the dry-run plan for a mod inside the menu loop.
func runCheckFor(cmd *cobra.Command, deps *cliDeps, mod *mods.Mod) error {
	p, err := deps.syncer(cmd).Check(cmd.Context(), mod)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if p.Empty() {
		util.ProgressDone(out, "%s is up to date\n", mod.Name)
		return nil
	}
	for _, op := range p {
		_, _ = fmt.Fprintf(out, "%-10s %s\n", op.Type, op.Path)
	}
	return nil
}
