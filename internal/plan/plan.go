// Package plan computes the file operations needed to reconcile a local mod
// installation with the state of its remote repository. Planning is pure:
// it performs no I/O, so the same inputs always produce the same plan.
package plan

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrInvalidInput indicates an ambiguous input set: the same path appears
// more than once with conflicting hashes. Callers must de-duplicate upstream.
var ErrInvalidInput = errors.New("duplicate path with conflicting hashes")

// RemoteFileEntry describes one file in the remote repository tree.
type RemoteFileEntry struct {
	// Path is relative to the mod root, forward-slash separated.
	Path string
	// Hash is the git blob SHA-1 of the file content, hex encoded.
	Hash string
	// Size is the blob size in bytes, used for progress reporting.
	Size int64
}

// LocalFileEntry describes one file currently present on disk.
type LocalFileEntry struct {
	Path string
	Hash string
}

// OpType is the kind of filesystem mutation an Operation performs.
// The declaration order is the execution order: deletions run before
// overwrites and downloads so transient name collisions (e.g. case-only
// renames) cannot occur.
type OpType int

const (
	// OpDelete removes a local file that no longer exists remotely.
	OpDelete OpType = iota
	// OpOverwrite replaces a local file whose hash differs from remote.
	OpOverwrite
	// OpDownload fetches a file that does not exist locally.
	OpDownload
)

// String returns a human-readable name for the operation type.
func (t OpType) String() string {
	switch t {
	case OpDelete:
		return "delete"
	case OpOverwrite:
		return "overwrite"
	case OpDownload:
		return "download"
	default:
		return "unknown"
	}
}

// Operation is a single required filesystem mutation.
type Operation struct {
	Type OpType
	// Path is relative to the mod root, forward-slash separated.
	Path string
	// Hash is the remote hash for downloads and overwrites, empty for deletes.
	Hash string
	// Size is the remote blob size for downloads and overwrites.
	Size int64
}

// Plan is an ordered sequence of operations: deletes first, then overwrites,
// then downloads, each group in lexicographic path order.
type Plan []Operation

// Empty reports whether the plan contains no operations.
func (p Plan) Empty() bool { return len(p) == 0 }

// DownloadSize returns the total number of bytes the plan will fetch.
func (p Plan) DownloadSize() int64 {
	var total int64
	for _, op := range p {
		if op.Type == OpDownload || op.Type == OpOverwrite {
			total += op.Size
		}
	}
	return total
}

// Counts returns the number of deletes, overwrites and downloads in the plan.
func (p Plan) Counts() (deletes, overwrites, downloads int) {
	for _, op := range p {
		switch op.Type {
		case OpDelete:
			deletes++
		case OpOverwrite:
			overwrites++
		case OpDownload:
			downloads++
		}
	}
	return
}

// Compute diffs the remote and local file sets and returns the minimal plan
// that makes the local state match the remote state. Paths present on both
// sides with equal hashes produce no operation. An empty remote set yields a
// deletion-only plan, which is how uninstall is expressed.
func Compute(remote []RemoteFileEntry, local []LocalFileEntry) (Plan, error) {
	remoteByPath := make(map[string]RemoteFileEntry, len(remote))
	for _, e := range remote {
		p := normalize(e.Path)
		if prev, ok := remoteByPath[p]; ok && prev.Hash != e.Hash {
			return nil, fmt.Errorf("remote entry %q: %w", p, ErrInvalidInput)
		}
		e.Path = p
		remoteByPath[p] = e
	}

	localByPath := make(map[string]LocalFileEntry, len(local))
	for _, e := range local {
		p := normalize(e.Path)
		if prev, ok := localByPath[p]; ok && prev.Hash != e.Hash {
			return nil, fmt.Errorf("local entry %q: %w", p, ErrInvalidInput)
		}
		e.Path = p
		localByPath[p] = e
	}

	remotePaths := mapset.NewThreadUnsafeSetFromMapKeys(remoteByPath)
	localPaths := mapset.NewThreadUnsafeSetFromMapKeys(localByPath)

	var deletes, overwrites, downloads []Operation

	for _, p := range localPaths.Difference(remotePaths).ToSlice() {
		deletes = append(deletes, Operation{Type: OpDelete, Path: p})
	}
	for _, p := range remotePaths.Difference(localPaths).ToSlice() {
		e := remoteByPath[p]
		downloads = append(downloads, Operation{Type: OpDownload, Path: p, Hash: e.Hash, Size: e.Size})
	}
	for _, p := range remotePaths.Intersect(localPaths).ToSlice() {
		e := remoteByPath[p]
		if e.Hash != localByPath[p].Hash {
			overwrites = append(overwrites, Operation{Type: OpOverwrite, Path: p, Hash: e.Hash, Size: e.Size})
		}
	}

	sortByPath(deletes)
	sortByPath(overwrites)
	sortByPath(downloads)

	out := make(Plan, 0, len(deletes)+len(overwrites)+len(downloads))
	out = append(out, deletes...)
	out = append(out, overwrites...)
	out = append(out, downloads...)
	return out, nil
}

func sortByPath(ops []Operation) {
	sort.Slice(ops, func(i, j int) bool { return ops[i].Path < ops[j].Path })
}

// normalize cleans a relative path and forces forward slashes.
func normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.TrimPrefix(path.Clean(p), "./")
}
