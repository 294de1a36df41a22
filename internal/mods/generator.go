// generator.go produces the registry template written by `hd2sync init`.

package mods

import (
	"bytes"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// SchemaComment points editors at the registry schema.
const SchemaComment = "#:schema https://raw.githubusercontent.com/darkmatro/hd2sync/main/schema/hd2sync.json\n\n"

// GenerateRegistry returns the TOML content for a fresh registry file,
// seeded with the built-in mod packs so users have a working example to edit.
func GenerateRegistry() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(Default()); err != nil {
		return "", fmt.Errorf("encode registry template: %w", err)
	}
	return SchemaComment + buf.String(), nil
}
