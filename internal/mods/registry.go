// Package mods handles the mod registry: the mapping from a mod's menu name
// to the GitHub repository, branch and folder namespaces it installs into.
// The registry lives in an hd2sync.toml file next to the game executable; a
// built-in default covers the standard mod packs when no file exists.
package mods

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	// RegistryFilename is the registry file name, looked up in the game root.
	RegistryFilename = "hd2sync.toml"

	// DefaultRef is the branch used when a mod entry omits one.
	DefaultRef = "main"

	// DefaultGameExecutable is the file the game root must contain. The tool
	// refuses to sync into a directory that is not a game installation.
	DefaultGameExecutable = "HD2_SabreSquadron.exe"
)

// Mod maps an installable content package to its remote source.
type Mod struct {
	Name        string `toml:"name" json:"name" jsonschema:"required,description=Menu name of the mod"`
	Description string `toml:"description,omitempty" json:"description,omitempty" jsonschema:"description=One-line description shown in the menu"`
	Repo        string `toml:"repo" json:"repo" jsonschema:"required,description=GitHub repository as owner/name"`
	Ref         string `toml:"ref,omitempty" json:"ref,omitempty" jsonschema:"description=Branch or commit to sync against (default main)"`
	// Folders are the game directories the mod owns. Everything inside them
	// is reconciled against the remote tree, including deletions.
	Folders []string `toml:"folders" json:"folders" jsonschema:"required,description=Game folders the mod owns"`
	// OptionalFolders are extra namespaces synced only when the user opts in.
	OptionalFolders []string `toml:"optional_folders,omitempty" json:"optional_folders,omitempty" jsonschema:"description=Folders synced only with --optional"`
}

// RefOrDefault returns the mod's ref, falling back to DefaultRef.
func (m *Mod) RefOrDefault() string {
	if m.Ref == "" {
		return DefaultRef
	}
	return m.Ref
}

// SyncFolders returns the folder namespaces to reconcile for this mod.
func (m *Mod) SyncFolders(includeOptional bool) []string {
	if !includeOptional {
		return m.Folders
	}
	out := make([]string, 0, len(m.Folders)+len(m.OptionalFolders))
	out = append(out, m.Folders...)
	out = append(out, m.OptionalFolders...)
	return out
}

// Validate checks a single mod entry.
func (m *Mod) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("mod entry without a name")
	}
	if !strings.Contains(m.Repo, "/") {
		return fmt.Errorf("mod %s: repo must be owner/name, got %q", m.Name, m.Repo)
	}
	if len(m.Folders) == 0 {
		return fmt.Errorf("mod %s: no folders declared", m.Name)
	}
	for _, f := range append(append([]string{}, m.Folders...), m.OptionalFolders...) {
		if f == "" || strings.HasPrefix(f, "/") || strings.HasPrefix(f, "..") {
			return fmt.Errorf("mod %s: folder %q must be a relative path inside the game root", m.Name, f)
		}
	}
	return nil
}

// Registry is the full set of installable mods plus game-level settings.
type Registry struct {
	// GameExecutable is checked to exist in the game root before any sync.
	GameExecutable string `toml:"game_executable,omitempty" json:"game_executable,omitempty" jsonschema:"description=Executable that marks the game root"`
	Mods           []Mod  `toml:"mod" json:"mod" jsonschema:"required,description=Installable mods"`
}

// Find returns the mod with the given name, case-insensitively.
func (r *Registry) Find(name string) (*Mod, bool) {
	for i := range r.Mods {
		if strings.EqualFold(r.Mods[i].Name, name) {
			return &r.Mods[i], true
		}
	}
	return nil, false
}

// Names returns the mod names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.Mods))
	for i, m := range r.Mods {
		out[i] = m.Name
	}
	return out
}

// Validate checks the whole registry.
func (r *Registry) Validate() error {
	if len(r.Mods) == 0 {
		return fmt.Errorf("registry has no mods")
	}
	seen := map[string]bool{}
	for i := range r.Mods {
		m := &r.Mods[i]
		if err := m.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(m.Name)
		if seen[key] {
			return fmt.Errorf("duplicate mod name %q", m.Name)
		}
		seen[key] = true
	}
	return nil
}

// Default returns the built-in registry with the standard HD2 mod packs.
func Default() *Registry {
	return &Registry{
		GameExecutable: DefaultGameExecutable,
		Mods: []Mod{
			{
				Name:        "CMP",
				Description: "Coop Map Package",
				Repo:        "ehylla93/had2-cmp",
				Ref:         "main",
				Folders:     []string{"Maps", "Models", "Sounds", "Missions", "Scripts", "Text"},
				OptionalFolders: []string{
					"cmp_optional/Civil Uniform Mod/Maps",
					"cmp_optional/Civil Uniform Mod/Models",
				},
			},
			{
				Name:        "Max Pack",
				Description: "Texture and Sounds mods by Max",
				Repo:        "DarkMatro/Texture-and-Sounds-mods-by-Max",
				Ref:         "master",
				Folders:     []string{"Maps", "Maps_U", "Models", "PlayersProfiles", "Sounds", "Text"},
			},
			{
				Name:        "Max Pack RUS",
				Description: "Texture and Sounds mods by Max, russian version extras",
				Repo:        "DarkMatro/Texture-and-Sounds-mods-by-Max_RUS",
				Ref:         "master",
				Folders:     []string{"Maps", "Tables", "Text"},
			},
		},
	}
}

// Load reads and validates a registry file.
func Load(fsys afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var r Registry
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if r.GameExecutable == "" {
		r.GameExecutable = DefaultGameExecutable
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return &r, nil
}

// LoadOrDefault loads the registry file at path if it exists, otherwise
// returns the built-in default.
func LoadOrDefault(fsys afero.Fs, path string) (*Registry, error) {
	if ok, err := afero.Exists(fsys, path); err != nil {
		return nil, err
	} else if !ok {
		return Default(), nil
	}
	return Load(fsys, path)
}
