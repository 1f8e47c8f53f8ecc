package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ChangedFile is one entry of a git diff, identified by its new path and
// the single-letter git status (A, M, D, R, C, ...).
type ChangedFile struct {
	Path   string
	Status byte
}

// Deleted reports whether the file no longer exists after the change.
func (c ChangedFile) Deleted() bool {
	return c.Status == 'D'
}

// ChangedFiles runs git diff against the given ref and returns the changed
// files with their statuses.
func ChangedFiles(baseRef string) ([]ChangedFile, error) {
	cmd := exec.Command("git", "diff", "--name-status", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	return parseNameStatus(output)
}

// parseNameStatus parses `git diff --name-status` output. Each line is a
// status, a tab, and the path; renames and copies carry two paths and we
// keep the new one.
func parseNameStatus(output []byte) ([]ChangedFile, error) {
	var changes []ChangedFile

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			return nil, fmt.Errorf("malformed diff line: %q", line)
		}

		status := fields[0][0]
		path := fields[1]
		if (status == 'R' || status == 'C') && len(fields) >= 3 {
			path = fields[2]
		}

		changes = append(changes, ChangedFile{Path: path, Status: status})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return changes, nil
}
