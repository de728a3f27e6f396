package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nicobailon/wtm/internal/config"
	"github.com/nicobailon/wtm/internal/git"
	"github.com/nicobailon/wtm/internal/log"
	"github.com/nicobailon/wtm/internal/notes"
)

var errMissingDir = errors.New("worktree directory is missing")

// Worktree is one row of a snapshot. Rows are values and are never
// mutated after Build returns them.
type Worktree struct {
	Path     string
	Name     string
	Branch   string
	Detached bool
	Bare     bool
	Head     string
	IsMain   bool
	// Ahead and Behind are relative to the main branch, -1 when unknown.
	Ahead    int
	Behind   int
	// Dirty is also set when the check failed.
	Dirty    bool
	Progress *notes.Progress
	Purpose  string
	Err      error

	MergedReady bool
}

// Label is the branch name, or a marker for rows without one.
func (w Worktree) Label() string {
	switch {
	case w.Bare:
		return "(bare)"
	case w.Detached || w.Branch == "":
		return "(detached)"
	}
	return w.Branch
}

type Service struct {
	Git    *git.Git
	Config *config.Config
}

func NewService(g *git.Git, cfg *config.Config) *Service {
	return &Service{Git: g, Config: cfg}
}

func (s *Service) MainBranch(ctx context.Context) string {
	return s.Git.MainBranch(ctx, s.Config.MainBranch)
}

func (s *Service) WorktreePath(branch string) string {
	return s.Git.WorktreePath(branch)
}

// Build produces a fresh snapshot. Only a failure to list worktrees is
// returned; per-row failures are recorded on the row.
func (s *Service) Build(ctx context.Context) ([]Worktree, error) {
	entries, err := s.Git.ListWorktrees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	mainBranch := s.MainBranch(ctx)
	l := log.FromContext(ctx)

	rows := make([]Worktree, 0, len(entries))
	for i, e := range entries {
		wt := Worktree{
			Path:     e.Path,
			Name:     filepath.Base(e.Path),
			Branch:   e.Branch,
			Detached: e.Detached,
			Bare:     e.Bare,
			Head:     shortHash(e.Head),
			IsMain:   i == 0,
			Ahead:    -1,
			Behind:   -1,
		}
		if !e.Bare {
			s.fillStatus(ctx, &wt, e, mainBranch)
			if st := notes.Read(e.Path, s.Config.NotesFile); st != nil {
				wt.Progress = st.Progress
				wt.Purpose = st.Purpose
			}
		}
		if wt.Err != nil {
			l.Warn("status for %s: %v", wt.Path, wt.Err)
		}
		wt.MergedReady = !wt.IsMain && wt.Ahead == 0 && !wt.Dirty
		rows = append(rows, wt)
	}
	return rows, nil
}

func (s *Service) fillStatus(ctx context.Context, wt *Worktree, e git.Entry, mainBranch string) {
	if e.Prunable {
		wt.Err = errMissingDir
		return
	}
	if !wt.IsMain {
		ahead, behind, err := s.Git.AheadBehind(ctx, e.Path, mainBranch)
		if err != nil {
			wt.Err = err
		} else {
			wt.Ahead, wt.Behind = ahead, behind
		}
	}
	dirty, err := s.Git.IsDirty(ctx, e.Path)
	if err != nil {
		// unknown counts as dirty
		wt.Dirty = true
		if wt.Err == nil {
			wt.Err = err
		}
		return
	}
	wt.Dirty = dirty
}

// CreateWorktree adds the worktree and seeds its notes file.
func (s *Service) CreateWorktree(ctx context.Context, branch, base string) (string, error) {
	if base == "" {
		base = s.MainBranch(ctx)
	}
	path, err := s.Git.CreateWorktree(ctx, branch, base)
	if err != nil {
		return "", err
	}
	if _, _, err := notes.Ensure(path, s.Config.NotesFile, branch); err != nil {
		log.FromContext(ctx).Warn("write notes template in %s: %v", path, err)
	}
	return path, nil
}

func (s *Service) DeleteWorktree(ctx context.Context, path string, force bool) error {
	return s.Git.RemoveWorktree(ctx, path, force)
}

// Find returns the row with the given path.
func Find(rows []Worktree, path string) (Worktree, bool) {
	for _, r := range rows {
		if r.Path == path {
			return r, true
		}
	}
	return Worktree{}, false
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// MergeMain fast-forwards the worktree at path to the main branch.
func (s *Service) MergeMain(ctx context.Context, path string) error {
	return s.Git.FetchAndFFMerge(ctx, path, s.MainBranch(ctx))
}
