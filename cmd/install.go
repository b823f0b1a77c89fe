package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/corpeningc/xmlmerge/internal/attributes"
	"github.com/corpeningc/xmlmerge/internal/git"
	"github.com/corpeningc/xmlmerge/internal/log"
	"github.com/corpeningc/xmlmerge/internal/ui"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the merge driver in this repository",
	Long: `Adds the merge driver to the repository's git config and routes the given
patterns to it in .gitattributes (or .git/info/attributes with --local).`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the merge driver from this repository",
	Args:  cobra.NoArgs,
	RunE:  runUninstall,
}

func init() {
	installCmd.Flags().StringArrayP("pattern", "p", nil, "attribute pattern to merge with the driver, e.g. -p 'strings.xml' -p '*.resx'")
	installCmd.Flags().Bool("local", false, "write patterns to .git/info/attributes instead of .gitattributes")
	installCmd.Flags().String("command", "xmlmerge", "command git runs for the driver")

	uninstallCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func runInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	patterns, err := cmd.Flags().GetStringArray("pattern")
	if err != nil {
		return err
	}
	local, err := cmd.Flags().GetBool("local")
	if err != nil {
		return err
	}
	command, err := cmd.Flags().GetString("command")
	if err != nil {
		return err
	}

	root, err := a.repo.Root()
	if err != nil {
		return err
	}

	if len(patterns) == 0 && interactive() {
		candidates, err := candidatePatterns(cmd, a.repo)
		if err != nil {
			return err
		}
		if patterns, err = ui.SelectPatterns(candidates); err != nil {
			return err
		}
	}
	if len(patterns) == 0 {
		return errors.New("no patterns given, use --pattern")
	}

	err = a.repo.InstallDriver(git.DriverConfig{
		Name:        a.cfg.DriverName,
		Description: "merge XML files by named entries",
		Command:     command + " merge %A %O %B %P",
	})
	if err != nil {
		return err
	}

	attrs, err := attributes.Load(attributes.PathFor(root, local))
	if err != nil {
		return err
	}
	for _, pattern := range patterns {
		if !attrs.Add(pattern, a.cfg.DriverName) {
			a.logger.Info("pattern already routed", "pattern", pattern)
		}
	}
	if err := attrs.Save(); err != nil {
		return err
	}

	a.logger.Info("installed merge driver", "driver", a.cfg.DriverName, "attributes", attrs.Path, "patterns", len(patterns))
	return nil
}

// candidatePatterns offers every tracked XML file name plus a catch-all.
func candidatePatterns(cmd *cobra.Command, repo *git.GitRepo) ([]string, error) {
	files, err := repo.TrackedFiles(cmd.Context(), "*.xml")
	if err != nil {
		return nil, err
	}
	log.From(cmd.Context()).Debug("tracked xml files", "count", len(files))
	names := lo.Uniq(lo.Map(files, func(file string, _ int) string {
		return filepath.Base(file)
	}))
	return append(names, "*.xml"), nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	root, err := a.repo.Root()
	if err != nil {
		return err
	}

	if !yes && interactive() {
		ok, err := ui.Confirm(fmt.Sprintf("Remove merge driver %q from this repository?", a.cfg.DriverName))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	removed, err := a.repo.UninstallDriver(a.cfg.DriverName)
	if err != nil {
		return err
	}
	if !removed {
		a.logger.Warn("merge driver was not configured", "driver", a.cfg.DriverName)
	}

	for _, local := range []bool{false, true} {
		attrs, err := attributes.Load(attributes.PathFor(root, local))
		if err != nil {
			return err
		}
		if n := attrs.Remove(a.cfg.DriverName); n > 0 {
			if err := attrs.Save(); err != nil {
				return err
			}
			a.logger.Info("removed patterns", "attributes", attrs.Path, "patterns", n)
		}
	}

	a.logger.Info("uninstalled merge driver", "driver", a.cfg.DriverName)
	return nil
}
