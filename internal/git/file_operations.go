package git

import (
	"bufio"
	"context"
	"strings"
)

type FileStatus struct {
	Path     string
	Status   string // M(odified), A(dded), D(eleted), R(enamed), ?(untracked), U(nmerged)
	Staged   bool
	WorkTree bool
	Unmerged bool
}

// unmergedCodes are the porcelain XY pairs git uses for unresolved paths.
var unmergedCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true,
	"DU": true, "AA": true, "UU": true,
}

func (repo *GitRepo) GetFileStatuses(ctx context.Context) ([]FileStatus, error) {
	stdout, stderr, err := repo.run(ctx, "status", "--porcelain=v1")
	if err != nil {
		return nil, formatCommandError("status", err, stdout, stderr)
	}
	return parseStatus(stdout.String()), nil
}

// ConflictedFiles returns the paths git currently reports as unmerged.
func (repo *GitRepo) ConflictedFiles(ctx context.Context) ([]string, error) {
	statuses, err := repo.GetFileStatuses(ctx)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, status := range statuses {
		if status.Unmerged {
			files = append(files, status.Path)
		}
	}
	return files, nil
}

// TrackedFiles lists tracked paths matching the given pathspecs.
func (repo *GitRepo) TrackedFiles(ctx context.Context, pathspecs ...string) ([]string, error) {
	args := append([]string{"ls-files", "--"}, pathspecs...)
	stdout, stderr, err := repo.run(ctx, args...)
	if err != nil {
		return nil, formatCommandError("ls-files", err, stdout, stderr)
	}

	var files []string
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, unquote(line))
		}
	}
	return files, scanner.Err()
}

func parseStatus(output string) []FileStatus {
	var statuses []FileStatus
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}

		stageStatus := string(line[0])
		workTreeStatus := string(line[1])
		filePath := unquote(strings.TrimSpace(line[3:]))

		if unmergedCodes[line[:2]] {
			statuses = append(statuses, FileStatus{
				Path:     filePath,
				Status:   "U",
				Unmerged: true,
			})
			continue
		}

		if stageStatus != " " && stageStatus != "?" {
			statuses = append(statuses, FileStatus{
				Path:   filePath,
				Status: stageStatus,
				Staged: true,
			})
		}

		if workTreeStatus != " " {
			statuses = append(statuses, FileStatus{
				Path:     filePath,
				Status:   workTreeStatus,
				WorkTree: true,
			})
		}
	}

	return statuses
}

// Git quotes filenames with special characters - remove the quotes
func unquote(path string) string {
	if len(path) >= 2 && strings.HasPrefix(path, "\"") && strings.HasSuffix(path, "\"") {
		return path[1 : len(path)-1]
	}
	return path
}
