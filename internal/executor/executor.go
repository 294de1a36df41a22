// Package executor applies a sync plan to the local filesystem. Execution is
// best effort: individual operation failures are collected rather than
// aborting the batch, so one bad download never blocks the rest of a sync.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/darkmatro/hd2sync/internal/plan"
)

// Fetcher retrieves remote file content for download and overwrite
// operations. The path is relative to the mod root, forward-slash separated.
type Fetcher interface {
	Fetch(ctx context.Context, path string, w io.Writer) error
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context, path string, w io.Writer) error

// Fetch implements Fetcher.
func (f FetchFunc) Fetch(ctx context.Context, path string, w io.Writer) error {
	return f(ctx, path, w)
}

// OpError records one failed operation.
type OpError struct {
	Op  plan.Operation
	Err error
}

func (e OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op.Type, e.Op.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e OpError) Unwrap() error { return e.Err }

// Result summarizes a plan execution. A run with Failed entries is a partial
// sync: re-running the same compute/execute cycle retries only what is still
// out of date.
type Result struct {
	Succeeded []plan.Operation
	Failed    []OpError
	// Skipped holds operations not attempted because the run was cancelled.
	Skipped []plan.Operation
	// BytesWritten counts content written by successful downloads/overwrites.
	BytesWritten int64
}

// Ok reports whether every attempted operation succeeded and none were skipped.
func (r *Result) Ok() bool { return len(r.Failed) == 0 && len(r.Skipped) == 0 }

// Summary returns a one-line description suitable for console output.
func (r *Result) Summary() string {
	s := fmt.Sprintf("%d ok, %d failed (%s written)",
		len(r.Succeeded), len(r.Failed), humanize.Bytes(uint64(r.BytesWritten)))
	if len(r.Skipped) > 0 {
		s += fmt.Sprintf(", %d skipped", len(r.Skipped))
	}
	return s
}

// Executor applies plans against a filesystem using a Fetcher for content.
type Executor struct {
	Fs      afero.Fs
	Fetcher Fetcher
}

// New creates an Executor.
func New(fsys afero.Fs, fetcher Fetcher) *Executor {
	return &Executor{Fs: fsys, Fetcher: fetcher}
}

// Execute applies the plan under localRoot in order. Cancellation stops the
// run between operations: completed work stays, the in-flight write is
// discarded, and untouched operations are reported as skipped.
func (e *Executor) Execute(ctx context.Context, localRoot string, p plan.Plan) *Result {
	res := &Result{}

	for i, op := range p {
		if ctx.Err() != nil {
			res.Skipped = append(res.Skipped, p[i:]...)
			break
		}

		var err error
		switch op.Type {
		case plan.OpDelete:
			err = e.delete(localRoot, op.Path)
		case plan.OpDownload, plan.OpOverwrite:
			err = e.download(ctx, localRoot, op)
			if err == nil {
				res.BytesWritten += op.Size
			}
		default:
			err = fmt.Errorf("unknown operation type: %d", op.Type)
		}

		if err != nil {
			slog.Error("sync op failed", "op", op.Type.String(), "path", op.Path, "error", err)
			res.Failed = append(res.Failed, OpError{Op: op, Err: err})
			continue
		}
		slog.Debug("sync op done", "op", op.Type.String(), "path", op.Path)
		res.Succeeded = append(res.Succeeded, op)
	}

	return res
}

// delete removes the file at root/path. A file that is already gone is not
// an error: the goal state is reached either way.
func (e *Executor) delete(root, rel string) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := e.Fs.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// download fetches content into a temp file next to the target and renames
// it into place, so an interrupted transfer never leaves a half-written file.
func (e *Executor) download(ctx context.Context, root string, op plan.Operation) (err error) {
	full := filepath.Join(root, filepath.FromSlash(op.Path))
	dir := filepath.Dir(full)
	if err := e.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.part", filepath.Base(full), uuid.NewString()[:8]))
	f, err := e.Fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = e.Fs.Remove(tmp)
		}
	}()

	if err = e.Fetcher.Fetch(ctx, op.Path, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("fetch %s: %w", op.Path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Rename does not replace an existing target on every backing fs
	// (afero's MemMapFs rejects it), so clear the old file first. Worst
	// case on interruption is a missing file, never a truncated one.
	if exists, _ := afero.Exists(e.Fs, full); exists {
		if err = e.Fs.Remove(full); err != nil {
			return fmt.Errorf("replace %s: %w", full, err)
		}
	}
	if err = e.Fs.Rename(tmp, full); err != nil {
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}

// PruneEmptyDirs removes directories under root/folder that are left empty,
// deepest first, including the folder itself if it ends up empty. Deleting a
// mod should not leave a skeleton of empty directories behind.
func PruneEmptyDirs(fsys afero.Fs, root, folder string) error {
	base := filepath.Join(root, filepath.FromSlash(folder))
	if ok, err := afero.DirExists(fsys, base); err != nil || !ok {
		return err
	}

	var dirs []string
	err := afero.Walk(fsys, base, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Deepest paths first so children go before parents.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, dir := range dirs {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := fsys.Remove(dir); err != nil {
				return err
			}
		}
	}
	return nil
}
