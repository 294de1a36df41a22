package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/darkmatro/hd2sync/internal/util"
)

var checkCmd = &cobra.Command{
	Use:   "check <mod>",
	Short: "Show what a sync would change, without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	deps, err := newCLIDeps(util.NewReadonlyOsEnv())
	if err != nil {
		return err
	}
	if err := deps.preflight(cmd.Context()); err != nil {
		return err
	}
	mod, err := deps.findMod(args[0])
	if err != nil {
		return err
	}

	p, err := deps.syncer(cmd).Check(cmd.Context(), mod)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if p.Empty() {
		util.ProgressDone(out, "%s is up to date\n", mod.Name)
		return nil
	}

	for _, op := range p {
		_, _ = fmt.Fprintf(out, "%-10s %s\n", op.Type, op.Path)
	}
	deletes, overwrites, downloads := p.Counts()
	_, _ = fmt.Fprintf(out, "\n%d to download, %d to overwrite, %d to delete (%s to fetch)\n",
		downloads, overwrites, deletes, humanize.Bytes(uint64(p.DownloadSize())))
	return nil
}
