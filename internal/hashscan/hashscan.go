// Package hashscan walks local mod folders and computes the git blob SHA-1
// of every file, producing the local side of a sync diff. The blob hash (not
// a plain content hash) is what the GitHub trees API reports, so local and
// remote hashes are directly comparable.
package hashscan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/afero"

	"github.com/darkmatro/hd2sync/internal/plan"
)

// BlobHash computes the git blob object SHA-1 ("blob <size>\0" + content)
// of the given reader. The content is streamed, never buffered whole.
func BlobHash(size int64, r io.Reader) (string, error) {
	h := plumbing.NewHasher(plumbing.BlobObject, size)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return h.Sum().String(), nil
}

// HashFile computes the git blob SHA-1 of a file on the given filesystem.
func HashFile(fsys afero.Fs, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", name, err)
	}
	return BlobHash(info.Size(), f)
}

// ScanFolder walks root/folder and returns an entry per regular file, with
// paths relative to root (forward-slash separated) so they line up with
// remote tree listings. A missing folder yields no entries: a mod that was
// never installed simply has nothing on disk yet.
func ScanFolder(fsys afero.Fs, root, folder string) ([]plan.LocalFileEntry, error) {
	base := filepath.Join(root, filepath.FromSlash(folder))
	if ok, err := afero.DirExists(fsys, base); err != nil {
		return nil, fmt.Errorf("stat %s: %w", base, err)
	} else if !ok {
		return nil, nil
	}

	var entries []plan.LocalFileEntry
	err := afero.Walk(fsys, base, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		hash, err := HashFile(fsys, p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		entries = append(entries, plan.LocalFileEntry{
			Path: filepath.ToSlash(rel),
			Hash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}
	return entries, nil
}

// ScanFolders scans several folder namespaces under root and concatenates
// the results.
func ScanFolders(fsys afero.Fs, root string, folders []string) ([]plan.LocalFileEntry, error) {
	var entries []plan.LocalFileEntry
	for _, folder := range folders {
		got, err := ScanFolder(fsys, root, folder)
		if err != nil {
			return nil, err
		}
		entries = append(entries, got...)
	}
	return entries, nil
}
