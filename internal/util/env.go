package util

import (
	"github.com/spf13/afero"
)

// Env bundles the environment dependencies that can be swapped out in tests.
type Env struct {
	// Fs is the filesystem to use for file operations.
	Fs afero.Fs
}

// NewOsEnv creates an Env backed by the real filesystem.
func NewOsEnv() *Env {
	return &Env{Fs: afero.NewOsFs()}
}

// NewReadonlyOsEnv creates an Env with a read-only OS filesystem.
// Use this for commands that only read files (like list and check).
func NewReadonlyOsEnv() *Env {
	return &Env{Fs: afero.NewReadOnlyFs(afero.NewOsFs())}
}

// NewTestEnv creates an Env with an in-memory filesystem.
func NewTestEnv() *Env {
	return &Env{Fs: afero.NewMemMapFs()}
}
