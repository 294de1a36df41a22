package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/github"
	"github.com/darkmatro/hd2sync/internal/mods"
	"github.com/darkmatro/hd2sync/internal/sync"
	"github.com/darkmatro/hd2sync/internal/util"
)

// tokenEnvVar is consulted when --token is not given.
const tokenEnvVar = "HD2SYNC_GITHUB_TOKEN"

// cliDeps bundles everything a command needs for one invocation.
type cliDeps struct {
	Env      *util.Env
	Registry *mods.Registry
	Client   *github.Client
	Root     string
}

// newCLIDeps resolves the game root, loads the registry (file or built-in
// default) and builds the remote client.
func newCLIDeps(env *util.Env) (*cliDeps, error) {
	root, err := filepath.Abs(flagRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve game root: %w", err)
	}

	registry, err := mods.LoadOrDefault(env.Fs, filepath.Join(root, mods.RegistryFilename))
	if err != nil {
		return nil, err
	}

	token := flagToken
	if token == "" {
		token = os.Getenv(tokenEnvVar)
	}

	return &cliDeps{
		Env:      env,
		Registry: registry,
		Client:   github.NewClient(github.WithToken(token)),
		Root:     root,
	}, nil
}

// preflight verifies the working directory is a game installation and the
// remote endpoint is reachable before any sync work starts.
func (d *cliDeps) preflight(ctx context.Context) error {
	if flagNoPreflight {
		return nil
	}

	exePath := filepath.Join(d.Root, d.Registry.GameExecutable)
	if ok, err := afero.Exists(d.Env.Fs, exePath); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%s not found in %s: move hd2sync into the game folder or pass --root",
			d.Registry.GameExecutable, d.Root)
	}

	if err := d.Client.Ping(ctx); err != nil {
		return fmt.Errorf("no connection to GitHub: %w", err)
	}
	return nil
}

// syncer builds a Syncer wired to the command's output.
func (d *cliDeps) syncer(cmd *cobra.Command) *sync.Syncer {
	return &sync.Syncer{
		Fs:              d.Env.Fs,
		Client:          d.Client,
		Root:            d.Root,
		IncludeOptional: flagOptional,
		Progress:        cmd.OutOrStdout(),
	}
}

// findMod resolves a mod name argument against the registry.
func (d *cliDeps) findMod(name string) (*mods.Mod, error) {
	m, ok := d.Registry.Find(name)
	if !ok {
		return nil, fmt.Errorf("unknown mod %q, available: %v", name, d.Registry.Names())
	}
	return m, nil
}
