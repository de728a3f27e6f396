package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicobailon/wtm/internal/workspace"
)

var listPorcelain bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List worktrees with their status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := s.ws.Build(ctx)
		if err != nil {
			return err
		}
		if listPorcelain {
			return listPorcelainAction(cmd.OutOrStdout(), rows)
		}
		return listAction(cmd.OutOrStdout(), rows)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listPorcelain, "porcelain", false, "Tab-separated output for scripts")
}

func listAction(w io.Writer, rows []workspace.Worktree) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Worktrees")
	for _, wt := range rows {
		mark := " "
		if wt.IsMain {
			mark = "●"
		}
		var flags []string
		if !wt.IsMain && wt.Err == nil {
			flags = append(flags, fmt.Sprintf("↑%d ↓%d", wt.Ahead, wt.Behind))
		}
		if wt.Dirty {
			flags = append(flags, "dirty")
		}
		if wt.Progress != nil {
			flags = append(flags, fmt.Sprintf("%d/%d", wt.Progress.Done, wt.Progress.Total))
		}
		if wt.MergedReady {
			flags = append(flags, "ready")
		}
		if wt.Err != nil {
			flags = append(flags, "error: "+wt.Err.Error())
		}
		fmt.Fprintf(w, " %s %-24s %-24s %s\n", mark, wt.Name, wt.Label(), strings.Join(flags, "  "))
	}
	fmt.Fprintln(w)
	return nil
}

// listPorcelainAction prints one line per worktree:
// path, branch, ahead, behind, dirty, done, total, ready.
func listPorcelainAction(w io.Writer, rows []workspace.Worktree) error {
	for _, wt := range rows {
		done, total := "", ""
		if wt.Progress != nil {
			done, total = strconv.Itoa(wt.Progress.Done), strconv.Itoa(wt.Progress.Total)
		}
		fields := []string{
			wt.Path,
			wt.Label(),
			strconv.Itoa(wt.Ahead),
			strconv.Itoa(wt.Behind),
			strconv.FormatBool(wt.Dirty),
			done,
			total,
			strconv.FormatBool(wt.MergedReady),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}
