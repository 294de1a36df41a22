// Package sync orchestrates one sync run: list the remote tree, scan local
// files, diff the two, and apply the resulting plan. The planner itself is
// pure; everything stateful lives here or in the executor.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/darkmatro/hd2sync/internal/executor"
	"github.com/darkmatro/hd2sync/internal/github"
	"github.com/darkmatro/hd2sync/internal/hashscan"
	"github.com/darkmatro/hd2sync/internal/mods"
	"github.com/darkmatro/hd2sync/internal/plan"
	"github.com/darkmatro/hd2sync/internal/util"
	"github.com/darkmatro/hd2sync/internal/version"
)

// RemoteClient is the remote repository collaborator: tree listing with
// hashes, raw content fetch, and a release version probe.
type RemoteClient interface {
	ListTree(ctx context.Context, repo, ref, folder string) ([]plan.RemoteFileEntry, error)
	FetchFile(ctx context.Context, repo, ref, path string, w io.Writer) error
	FetchVersion(ctx context.Context, repo, ref string) (string, error)
}

// Syncer wires the remote client, hash scanner, planner and executor
// together for a single game installation root.
type Syncer struct {
	Fs     afero.Fs
	Client RemoteClient
	// Root is the game installation directory all mod paths are relative to.
	Root string
	// IncludeOptional also syncs the mod's optional folder namespaces.
	IncludeOptional bool
	// Progress receives console progress lines; nil silences them.
	Progress io.Writer
}

// Check computes the plan for a mod without touching the filesystem.
// A tree-listing failure is fatal: no plan can be computed without the
// remote state.
func (s *Syncer) Check(ctx context.Context, mod *mods.Mod) (plan.Plan, error) {
	remote, err := s.listRemote(ctx, mod)
	if err != nil {
		return nil, err
	}
	local, err := s.scanLocal(mod)
	if err != nil {
		return nil, err
	}
	return plan.Compute(remote, local)
}

// Install reconciles the mod's folders with the remote state and records the
// installed version on full success.
func (s *Syncer) Install(ctx context.Context, mod *mods.Mod) (*executor.Result, error) {
	p, err := s.Check(ctx, mod)
	if err != nil {
		return nil, err
	}

	if p.Empty() {
		util.ProgressDone(s.Progress, "%s is already up to date\n", mod.Name)
		s.recordVersion(ctx, mod)
		return &executor.Result{}, nil
	}

	deletes, overwrites, downloads := p.Counts()
	util.ProgressStep(s.Progress, "%s: %d to download, %d to overwrite, %d to delete\n",
		mod.Name, downloads, overwrites, deletes)

	res := s.execute(ctx, mod, p)
	if res.Ok() {
		s.recordVersion(ctx, mod)
		util.ProgressDone(s.Progress, "%s synchronized (%s)\n", mod.Name, res.Summary())
	} else {
		util.ProgressWarn(s.Progress, "%s partially synchronized (%s), run again to retry\n",
			mod.Name, res.Summary())
	}
	return res, nil
}

// Uninstall removes every file the mod owns. It is the same reconcile with
// an empty remote set, so it needs no network access.
func (s *Syncer) Uninstall(ctx context.Context, mod *mods.Mod) (*executor.Result, error) {
	local, err := s.scanLocal(mod)
	if err != nil {
		return nil, err
	}
	p, err := plan.Compute(nil, local)
	if err != nil {
		return nil, err
	}

	if p.Empty() {
		util.ProgressDone(s.Progress, "%s has no local files\n", mod.Name)
	} else {
		util.ProgressStep(s.Progress, "%s: deleting %d files\n", mod.Name, len(p))
	}

	res := s.execute(ctx, mod, p)
	if res.Ok() {
		if err := version.Clear(s.Fs, s.Root, mod.Name); err != nil {
			slog.Warn("failed to clear version record", "mod", mod.Name, "error", err)
		}
		util.ProgressDone(s.Progress, "%s uninstalled (%s)\n", mod.Name, res.Summary())
	}
	return res, nil
}

func (s *Syncer) execute(ctx context.Context, mod *mods.Mod, p plan.Plan) *executor.Result {
	fetch := executor.FetchFunc(func(ctx context.Context, path string, w io.Writer) error {
		return s.Client.FetchFile(ctx, mod.Repo, mod.RefOrDefault(), path, w)
	})
	res := executor.New(s.Fs, fetch).Execute(ctx, s.Root, p)

	// Deletions can leave empty directory skeletons behind.
	if hasDeletes(p) {
		for _, folder := range mod.SyncFolders(true) {
			if err := executor.PruneEmptyDirs(s.Fs, s.Root, folder); err != nil {
				slog.Warn("failed to prune empty dirs", "folder", folder, "error", err)
			}
		}
	}
	return res
}

// listRemote lists every folder namespace the mod owns. Optional folders
// missing on the remote are skipped; a required folder missing remotely is
// an error, because reconciling it against an empty set would wipe local
// files over what may just be a registry typo.
func (s *Syncer) listRemote(ctx context.Context, mod *mods.Mod) ([]plan.RemoteFileEntry, error) {
	var entries []plan.RemoteFileEntry
	optional := map[string]bool{}
	for _, f := range mod.OptionalFolders {
		optional[f] = true
	}

	for _, folder := range mod.SyncFolders(s.IncludeOptional) {
		got, err := s.Client.ListTree(ctx, mod.Repo, mod.RefOrDefault(), folder)
		if err != nil {
			if optional[folder] && errors.Is(err, github.ErrNotFound) {
				slog.Debug("optional folder missing remotely", "mod", mod.Name, "folder", folder)
				continue
			}
			return nil, fmt.Errorf("list remote tree %s:%s: %w", mod.Repo, folder, err)
		}
		entries = append(entries, got...)
	}
	return entries, nil
}

func (s *Syncer) scanLocal(mod *mods.Mod) ([]plan.LocalFileEntry, error) {
	return hashscan.ScanFolders(s.Fs, s.Root, mod.SyncFolders(s.IncludeOptional))
}

// recordVersion saves the remote release version after a clean sync. Version
// metadata is advisory, so a failed probe only logs.
func (s *Syncer) recordVersion(ctx context.Context, mod *mods.Mod) {
	v, err := s.Client.FetchVersion(ctx, mod.Repo, mod.RefOrDefault())
	if err != nil {
		slog.Warn("failed to fetch remote version", "mod", mod.Name, "error", err)
		return
	}
	if err := version.Set(s.Fs, s.Root, mod.Name, v); err != nil {
		slog.Warn("failed to record version", "mod", mod.Name, "error", err)
	}
}

func hasDeletes(p plan.Plan) bool {
	for _, op := range p {
		if op.Type == plan.OpDelete {
			return true
		}
	}
	return false
}
