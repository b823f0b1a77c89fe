package cmd

import (
	"fmt"
	"strings"

	"github.com/corpeningc/xmlmerge/internal/attributes"
	"github.com/corpeningc/xmlmerge/internal/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the driver registration and unmerged files it handles",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	root, err := a.repo.Root()
	if err != nil {
		return err
	}

	driverCfg, err := a.repo.Driver(a.cfg.DriverName)
	if err != nil {
		return err
	}
	if driverCfg == nil {
		fmt.Fprintf(out, "driver %s: not installed\n", a.cfg.DriverName)
	} else {
		fmt.Fprintf(out, "driver %s: %s\n", driverCfg.Name, driverCfg.Command)
	}

	var patterns []string
	for _, local := range []bool{false, true} {
		attrs, err := attributes.Load(attributes.PathFor(root, local))
		if err != nil {
			return err
		}
		patterns = append(patterns, attrs.Patterns(a.cfg.DriverName)...)
	}
	patterns = lo.Uniq(patterns)
	if len(patterns) == 0 {
		fmt.Fprintln(out, "patterns: none")
	} else {
		fmt.Fprintf(out, "patterns: %s\n", strings.Join(patterns, " "))
	}

	conflicted, err := a.repo.ConflictedFiles(cmd.Context())
	if err != nil {
		return err
	}
	log.From(cmd.Context()).Debug("unmerged files", "count", len(conflicted))
	if len(conflicted) == 0 {
		fmt.Fprintln(out, "no unmerged files")
		return nil
	}

	matcher := attributes.NewMatcher(patterns)

	fmt.Fprintln(out, "unmerged files:")
	for _, file := range conflicted {
		mark := " "
		if matcher.Matches(file) {
			mark = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", mark, file)
	}
	fmt.Fprintln(out, "(* routed to the merge driver)")
	return nil
}
