package git

import (
	"github.com/pkg/errors"
)

const mergeSection = "merge"

// DriverConfig is a merge driver entry of the repository config
// (merge.<Name>.name and merge.<Name>.driver).
type DriverConfig struct {
	Name        string
	Description string
	Command     string
}

// InstallDriver records the merge driver in the repository config,
// replacing any previous definition with the same name.
func (repo *GitRepo) InstallDriver(d DriverConfig) error {
	if d.Name == "" || d.Command == "" {
		return errors.New("merge driver needs a name and a command")
	}

	r, err := repo.open()
	if err != nil {
		return err
	}
	cfg, err := r.Config()
	if err != nil {
		return errors.Wrap(err, "reading repository config")
	}

	sub := cfg.Raw.Section(mergeSection).Subsection(d.Name)
	sub.SetOption("name", d.Description)
	sub.SetOption("driver", d.Command)

	return errors.Wrap(r.SetConfig(cfg), "writing repository config")
}

// UninstallDriver removes the merge driver. It reports whether anything was
// removed.
func (repo *GitRepo) UninstallDriver(name string) (bool, error) {
	r, err := repo.open()
	if err != nil {
		return false, err
	}
	cfg, err := r.Config()
	if err != nil {
		return false, errors.Wrap(err, "reading repository config")
	}

	section := cfg.Raw.Section(mergeSection)
	if !section.HasSubsection(name) {
		return false, nil
	}
	section.RemoveSubsection(name)

	if err := r.SetConfig(cfg); err != nil {
		return false, errors.Wrap(err, "writing repository config")
	}
	return true, nil
}

// Driver returns the installed merge driver called name, or nil.
func (repo *GitRepo) Driver(name string) (*DriverConfig, error) {
	r, err := repo.open()
	if err != nil {
		return nil, err
	}
	cfg, err := r.Config()
	if err != nil {
		return nil, errors.Wrap(err, "reading repository config")
	}

	section := cfg.Raw.Section(mergeSection)
	if !section.HasSubsection(name) {
		return nil, nil
	}

	sub := section.Subsection(name)
	return &DriverConfig{
		Name:        name,
		Description: sub.Option("name"),
		Command:     sub.Option("driver"),
	}, nil
}
