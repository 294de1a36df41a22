package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/util"
	"github.com/darkmatro/hd2sync/internal/version"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available mods",
	Long:  `List the mods in the registry with their installed and remote versions.`,
	RunE:  runList,
}

// runList displays the registry as a table. Remote versions are fetched best
// effort: a network failure shows "?" rather than failing the listing.
func runList(cmd *cobra.Command, args []string) error {
	deps, err := newCLIDeps(util.NewReadonlyOsEnv())
	if err != nil {
		return err
	}

	installed := version.Load(deps.Env.Fs, deps.Root)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tINSTALLED\tREMOTE\tREPOSITORY\tDESCRIPTION")

	for _, m := range deps.Registry.Mods {
		local := installed.Get(m.Name)
		if local == "" {
			local = "-"
		}
		remote, err := deps.Client.FetchVersion(cmd.Context(), m.Repo, m.RefOrDefault())
		if err != nil {
			remote = "?"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Name, local, remote, m.Repo, m.Description)
	}

	return w.Flush()
}
