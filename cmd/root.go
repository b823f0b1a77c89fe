package cmd

import (
	"fmt"
	"os"

	charmLog "github.com/charmbracelet/log"
	"github.com/corpeningc/xmlmerge/internal/config"
	"github.com/corpeningc/xmlmerge/internal/git"
	"github.com/corpeningc/xmlmerge/internal/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xmlmerge",
	Short: "A git merge driver for XML files made of named entries",
	Long: `Resolves merge conflicts in XML documents whose root holds named entries
(such as Android string resources). A clean line merge is kept as is; otherwise
entries are merged by name and only real value conflicts are left to you.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// ExitError carries a process exit status without an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("git", "git", "git executable")
	rootCmd.PersistentFlags().String("driver-name", config.DefaultDriverName, "name of the merge driver in git config and attributes")

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(statusCmd)
}

// app is what every command needs, built once from the command line.
type app struct {
	cfg    *config.Config
	logger *charmLog.Logger
	repo   *git.GitRepo
}

func newApp(cmd *cobra.Command) (*app, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cmd.Flags(), workDir)
	if err != nil {
		return nil, err
	}

	logger, err := log.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}
	cmd.SetContext(log.With(cmd.Context(), logger))

	return &app{
		cfg:    cfg,
		logger: logger,
		repo:   git.New(workDir).WithBinary(cfg.GitBinary),
	}, nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
