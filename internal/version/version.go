// Package version tracks which mod versions are installed locally. It keeps
// a local_version.json file in the game root so the tool can tell the user
// whether a remote release is newer before any tree is listed.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileName is the version file kept next to the game executable.
const FileName = "local_version.json"

// SelfKey records the version of the tool itself.
const SelfKey = "self"

// Versions maps a mod name (or SelfKey) to its installed version string.
type Versions map[string]string

// FilePath returns the version file path for a game root.
func FilePath(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the version file from the game root. A missing file means
// nothing is installed yet. A corrupted file is treated the same way and
// will be rewritten on the next save; losing the record only costs a
// redundant hash scan, never correctness.
func Load(fsys afero.Fs, root string) Versions {
	data, err := afero.ReadFile(fsys, FilePath(root))
	if err != nil {
		return Versions{}
	}
	var v Versions
	if err := json.Unmarshal(data, &v); err != nil || v == nil {
		return Versions{}
	}
	return v
}

// Save writes the version file to the game root.
func Save(fsys afero.Fs, root string, v Versions) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal versions: %w", err)
	}
	if err := afero.WriteFile(fsys, FilePath(root), data, 0644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}

// Get returns the installed version for name, or "" if unknown.
func (v Versions) Get(name string) string { return v[name] }

// Set records an installed version and persists the file.
func Set(fsys afero.Fs, root, name, installed string) error {
	v := Load(fsys, root)
	v[name] = installed
	return Save(fsys, root, v)
}

// Clear removes the record for name and persists the file. Clearing a name
// that was never recorded is a no-op.
func Clear(fsys afero.Fs, root, name string) error {
	v := Load(fsys, root)
	if _, ok := v[name]; !ok {
		return nil
	}
	delete(v, name)
	return Save(fsys, root, v)
}

// Delete removes the version file entirely.
func Delete(fsys afero.Fs, root string) error {
	err := fsys.Remove(FilePath(root))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete version file: %w", err)
	}
	return nil
}
