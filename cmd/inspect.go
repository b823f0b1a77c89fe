package cmd

import (
	"fmt"
	"os"

	"github.com/corpeningc/xmlmerge/internal/document"
	"github.com/corpeningc/xmlmerge/internal/driver"
	"github.com/corpeningc/xmlmerge/internal/merge"
	"github.com/corpeningc/xmlmerge/internal/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <local> <incoming>",
	Short: "Show how two revisions would merge by entries",
	Long: `Runs the entry merge of two revisions without writing anything and prints
the conflicting, added and kept entries. Exits 1 when entries conflict.`,
	Args: cobra.ExactArgs(2),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("output", "o", "text", "output format: text, yaml or tui")
}

type inspectReport struct {
	File      string           `yaml:"file"`
	State     string           `yaml:"state"`
	Conflicts []merge.Conflict `yaml:"conflicts,omitempty"`
	Added     []string         `yaml:"added,omitempty"`
	Kept      []string         `yaml:"kept,omitempty"`
	Error     string           `yaml:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	result, err := inspect(merge.NewEngine(a.logger), args[0], args[1])
	if err != nil {
		return err
	}

	switch output {
	case "text":
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderReport(args[0], result))
	case "yaml":
		report := inspectReport{
			File:  args[0],
			State: result.State.String(),
			Added: result.Added,
			Kept:  result.Kept,
		}
		if result.Report != nil {
			report.Conflicts = result.Report.Conflicts
		}
		if result.ParseErr != nil {
			report.Error = result.ParseErr.Error()
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		cmd.OutOrStdout().Write(out)
	case "tui":
		if err := ui.ShowReport(args[0], result); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown output format %q", output)
	}

	if !result.Resolved() {
		return &ExitError{Code: driver.ExitConflict}
	}
	return nil
}

func inspect(engine *merge.Engine, localPath, incomingPath string) (*merge.Result, error) {
	localData, err := os.ReadFile(localPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading local revision")
	}
	incomingData, err := os.ReadFile(incomingPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading incoming revision")
	}

	local, err := document.Parse(localData)
	if err != nil {
		return &merge.Result{State: merge.StateConflicted, ParseErr: errors.Wrap(err, "local revision")}, nil
	}
	incoming, err := document.Parse(incomingData)
	if err != nil {
		return &merge.Result{State: merge.StateConflicted, ParseErr: errors.Wrap(err, "incoming revision")}, nil
	}

	return engine.Structural(local, incoming), nil
}
