package config

import (
	"os"
	"strings"

	"github.com/corpeningc/xmlmerge/internal/git"
	"github.com/corpeningc/xmlmerge/internal/log"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".xmlmerge"
	envPrefix  = "XMLMERGE"

	DefaultDriverName = "xmlmerge"
)

type Labels struct {
	Ours   string
	Base   string
	Theirs string
}

// Config is built once per process and passed to whatever needs it.
type Config struct {
	LogLevel   string
	TextMerger string
	GitBinary  string
	DriverName string
	Labels     Labels
	// File is the config file that was read, if any.
	File string
}

func defaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")
	v.SetDefault("text-merger", git.MergerGit)
	v.SetDefault("git", "git")
	v.SetDefault("driver-name", DefaultDriverName)
	v.SetDefault("labels.ours", "ours")
	v.SetDefault("labels.base", "base")
	v.SetDefault("labels.theirs", "theirs")
}

// Load layers defaults, the .xmlmerge.yaml file found in workDir or the home
// directory, XMLMERGE_* environment variables and the flags that were set.
func Load(flags *pflag.FlagSet, workDir string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if workDir != "" {
		v.AddConfigPath(workDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "binding flags")
		}
	}

	cfg := &Config{
		LogLevel:   strings.ToLower(v.GetString("log-level")),
		TextMerger: strings.ToLower(v.GetString("text-merger")),
		GitBinary:  v.GetString("git"),
		DriverName: v.GetString("driver-name"),
		Labels: Labels{
			Ours:   v.GetString("labels.ours"),
			Base:   v.GetString("labels.base"),
			Theirs: v.GetString("labels.theirs"),
		},
		File: v.ConfigFileUsed(),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if !lo.Contains(log.Levels, c.LogLevel) {
		return errors.Errorf("log-level must be one of %s, got %q", strings.Join(log.Levels, ", "), c.LogLevel)
	}
	switch c.TextMerger {
	case git.MergerGit, git.MergerDiff3:
	default:
		return errors.Errorf("text-merger must be %q or %q, got %q", git.MergerGit, git.MergerDiff3, c.TextMerger)
	}
	if c.DriverName == "" {
		return errors.New("driver-name must not be empty")
	}
	if strings.ContainsAny(c.DriverName, " \t\"") {
		return errors.Errorf("driver-name %q must not contain whitespace or quotes", c.DriverName)
	}
	return nil
}

// MarkerLabels returns the conflict marker labels for the file at target.
func (c *Config) MarkerLabels(target string) *git.Labels {
	label := func(side string) string {
		if target == "" {
			return side
		}
		return side + ":" + target
	}
	return &git.Labels{
		Local:    label(c.Labels.Ours),
		Base:     label(c.Labels.Base),
		Incoming: label(c.Labels.Theirs),
	}
}
