package cmd

import (
	"github.com/corpeningc/xmlmerge/internal/driver"
	"github.com/corpeningc/xmlmerge/internal/git"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <local> <base> <incoming> [path]",
	Short: "Merge one file (called by git as %A %O %B %P)",
	Long: `Merge driver entry point. git passes the local revision (%A), which also
receives the result, the common ancestor (%O), the incoming revision (%B) and
the path of the file being merged (%P).

Exits 0 when the file was merged and 1 when entries conflict; the local file
then holds the line merge with conflict markers.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("text-merger", git.MergerGit, "line merge to try first: git (git merge-file) or diff3 (in process)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	merger, err := git.NewTextMerger(a.cfg.TextMerger, a.repo)
	if err != nil {
		return err
	}

	paths := driver.Paths{
		Local:    args[0],
		Base:     args[1],
		Incoming: args[2],
	}
	if len(args) == 4 {
		paths.Target = args[3]
	}

	d := driver.New(a.cfg, merger, a.logger, cmd.ErrOrStderr())
	outcome, err := d.Run(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if outcome.ExitCode != driver.ExitResolved {
		return &ExitError{Code: outcome.ExitCode}
	}
	return nil
}
