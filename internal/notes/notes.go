// Package notes reads the optional per-worktree status file.
package notes

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const DefaultFile = ".worktree-status.md"

type Progress struct {
	Done  int
	Total int
}

type Status struct {
	Progress *Progress
	Purpose  string
	Content  string
}

func Path(worktreePath, file string) string {
	if file == "" {
		file = DefaultFile
	}
	return filepath.Join(worktreePath, file)
}

// Read parses the notes file of a worktree. A missing or unreadable file
// yields nil.
func Read(worktreePath, file string) *Status {
	data, err := os.ReadFile(Path(worktreePath, file))
	if err != nil {
		return nil
	}
	st := Parse(string(data))
	return &st
}

func ReadProgress(worktreePath, file string) *Progress {
	if st := Read(worktreePath, file); st != nil {
		return st.Progress
	}
	return nil
}

// Parse counts checklist items and extracts the purpose line. Progress is
// nil when the content has no checklist items.
func Parse(content string) Status {
	st := Status{Content: content}
	var done, total int
	inPurpose := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case isItem(trimmed, "[x]"), isItem(trimmed, "[X]"):
			done++
			total++
		case isItem(trimmed, "[ ]"):
			total++
		}

		if strings.HasPrefix(line, "## ") {
			inPurpose = strings.HasPrefix(line, "## Purpose") && st.Purpose == ""
			continue
		}
		if inPurpose && trimmed != "" && !strings.HasPrefix(trimmed, "<!--") {
			st.Purpose = trimmed
			inPurpose = false
		}
	}
	if total > 0 {
		st.Progress = &Progress{Done: done, Total: total}
	}
	return st
}

func isItem(line, box string) bool {
	return strings.HasPrefix(line, "- "+box) || strings.HasPrefix(line, "* "+box)
}

const template = `# Worktree: {branch}

## Purpose
<!-- What this worktree is for -->


## Status
- [ ] Implementation complete
- [ ] Tests passing
- [ ] Ready for review

## Notes
<!-- Blockers, context -->


## Related
<!-- Issue #, PR # -->
`

func Template(branch string) string {
	return strings.ReplaceAll(template, "{branch}", branch)
}

// Ensure writes the template unless the notes file already exists.
func Ensure(worktreePath, file, branch string) (string, bool, error) {
	path := Path(worktreePath, file)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, false, err
	}
	if err := os.WriteFile(path, []byte(Template(branch)), 0o644); err != nil {
		return path, false, err
	}
	return path, true, nil
}
