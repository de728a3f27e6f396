package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:       "init <shell>",
	Short:     "Output shell wrapper function",
	ValidArgs: []string{"bash", "zsh", "fish"},
	Args:      cobra.ExactArgs(1),
	Long: `Output a shell wrapper that changes into the worktree picked with cd.

A subprocess cannot change its parent shell's directory, so wtm prints the
chosen path on stdout and the wrapper performs the cd.`,
	Example: `  eval "$(wtm init bash)"          # add to ~/.bashrc
  eval "$(wtm init zsh)"           # add to ~/.zshrc
  wtm init fish | source           # add to ~/.config/fish/config.fish`,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, ok := shellInit[args[0]]
		if !ok {
			return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", args[0])
		}
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	},
}

const posixInit = `# wtm shell wrapper
wtm() {
    case "$1" in
        list|remove|config|init|help|completion|-v|--version|-h|--help)
            command wtm "$@"
            ;;
        *)
            local dir
            dir="$(command wtm "$@")" || return
            if [ -n "$dir" ] && [ -d "$dir" ]; then
                cd "$dir"
            fi
            ;;
    esac
}
`

const fishInit = `# wtm shell wrapper
function wtm --wraps=wtm --description 'Git worktree dashboard'
    switch "$argv[1]"
        case list remove config init help completion -v --version -h --help
            command wtm $argv
        case '*'
            set -l dir (command wtm $argv)
            or return
            if test -n "$dir"; and test -d "$dir"
                cd $dir
            end
    end
end
`

var shellInit = map[string]string{
	"bash": posixInit,
	"zsh":  posixInit,
	"fish": fishInit,
}
