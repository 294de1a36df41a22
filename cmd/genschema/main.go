// Command genschema emits the JSON schema for hd2sync.toml registry files.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/darkmatro/hd2sync/internal/mods"
)

func main() {
	r := jsonschema.Reflector{
		// Use toml tag for property names since the registry is a .toml file
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&mods.Registry{})
	schema.Title = "hd2sync Mod Registry"
	schema.Description = "Configuration schema for hd2sync.toml"
	schema.ID = ""

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		if err := os.WriteFile(os.Args[1], data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(string(data))
	}
}
