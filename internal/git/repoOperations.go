package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	gogit "github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
)

type GitRepo struct {
	WorkDir string
	Binary  string
}

func formatCommandError(operation string, err error, stdout, stderr bytes.Buffer) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w\nStdout: %s\nStderr: %s",
		operation, err, stdout.String(), stderr.String())
}

func New(workDir string) *GitRepo {
	return &GitRepo{WorkDir: workDir, Binary: "git"}
}

// WithBinary returns a copy of repo that runs the given git executable.
func (repo *GitRepo) WithBinary(binary string) *GitRepo {
	r := *repo
	if binary != "" {
		r.Binary = binary
	}
	return &r
}

func (repo *GitRepo) run(ctx context.Context, args ...string) (bytes.Buffer, bytes.Buffer, error) {
	cmd := exec.CommandContext(ctx, repo.Binary, args...)
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout, stderr, err
}

func (repo *GitRepo) open() (*gogit.Repository, error) {
	r, err := gogit.PlainOpenWithOptions(repo.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening repository at %s", repo.WorkDir)
	}
	return r, nil
}

// Root returns the top-level directory of the working tree.
func (repo *GitRepo) Root() (string, error) {
	r, err := repo.open()
	if err != nil {
		return "", err
	}

	wt, err := r.Worktree()
	if err != nil {
		return "", errors.Wrap(err, "resolving worktree")
	}
	return wt.Filesystem.Root(), nil
}
