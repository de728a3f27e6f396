package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nicobailon/wtm/internal/engine"
	"github.com/nicobailon/wtm/internal/workspace"
)

var (
	removeForce bool
	removeYes   bool
)

var removeCmd = &cobra.Command{
	Use:   "remove <branch|path>",
	Short: "Remove a linked worktree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		out := s.engine.Refresh(ctx)
		if out.Err != nil {
			return out.Err
		}
		wt, ok := resolveWorktree(out.Snapshot, args[0])
		if !ok {
			return fmt.Errorf("no worktree matches %q", args[0])
		}
		if wt.IsMain {
			return engine.ErrMainWorktree
		}

		force := removeForce
		if !removeYes {
			confirmed := false
			if err := newConfirmForm("Remove "+wt.Name+"?", wt.Path, &confirmed).Run(); err != nil {
				return err
			}
			if !confirmed {
				return nil
			}
			if wt.Dirty && !force {
				if err := newConfirmForm(wt.Name+" has uncommitted changes", "Remove anyway?", &force).Run(); err != nil {
					return err
				}
				if !force {
					return nil
				}
			}
		}

		res := s.engine.Delete(ctx, wt.Path, engine.Confirm{Confirmed: true, Force: force})
		if res.Err != nil {
			return res.Err
		}
		if res.Notice != nil {
			fmt.Fprintln(os.Stderr, res.Notice.Message)
		}
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Remove even with uncommitted changes")
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation")
}

// resolveWorktree matches arg against worktree paths, then branches and
// directory names.
func resolveWorktree(rows []workspace.Worktree, arg string) (workspace.Worktree, bool) {
	if abs, err := filepath.Abs(arg); err == nil {
		if wt, ok := workspace.Find(rows, abs); ok {
			return wt, true
		}
	}
	for _, wt := range rows {
		if wt.Branch == arg || wt.Name == arg {
			return wt, true
		}
	}
	return workspace.Worktree{}, false
}

func huhTheme() *huh.Theme {
	t := *huh.ThemeCharm()
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(lipgloss.Color("#cba6f7"))
	t.Focused.Next = t.Focused.FocusedButton
	return &t
}

func newConfirmForm(title, description string, result *bool) *huh.Form {
	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(result)

	return huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(huhTheme()).
		WithShowHelp(false).
		WithOutput(os.Stderr)
}
