package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/nicobailon/wtm/internal/notes"
	"github.com/nicobailon/wtm/internal/shortcut"
)

const (
	defaultPathPattern  = "sibling"
	defaultInitScript   = ".worktree-init.sh"
	defaultEditor       = "vim"
	defaultIDE          = "code"
	defaultGitTimeout   = 15 * time.Second
	defaultFetchTimeout = 30 * time.Second
)

var ErrConfigExists = errors.New("config file already exists")

type Config struct {
	// MainBranch overrides main/master detection when set.
	MainBranch   string        `mapstructure:"main_branch"`
	PathPattern  string        `mapstructure:"path_pattern"`
	NotesFile    string        `mapstructure:"notes_file"`
	InitScript   string        `mapstructure:"init_script"`
	Editor       string        `mapstructure:"editor"`
	IDE          string        `mapstructure:"ide"`
	GitTimeout   time.Duration `mapstructure:"git_timeout"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	LogFile      string        `mapstructure:"log_file"`

	// Shortcuts are the user's bindings in file order.
	Shortcuts []shortcut.Binding `mapstructure:"-"`
	// Path is the file the config was read from, empty when none exists.
	Path string `mapstructure:"-"`
}

func Default() *Config {
	return &Config{
		PathPattern:  defaultPathPattern,
		NotesFile:    notes.DefaultFile,
		InitScript:   defaultInitScript,
		Editor:       defaultEditor,
		IDE:          defaultIDE,
		GitTimeout:   defaultGitTimeout,
		FetchTimeout: defaultFetchTimeout,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/wtm/config.toml, falling back to
// ~/.config/wtm/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wtm", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "wtm", "config.toml")
	}
	return filepath.Join(home, ".config", "wtm", "config.toml")
}

// Load reads the config file at path, or searches the default locations
// when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			v.AddConfigPath(filepath.Join(dir, "wtm"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "wtm"))
		}
	}

	def := Default()
	v.SetDefault("main_branch", def.MainBranch)
	v.SetDefault("path_pattern", def.PathPattern)
	v.SetDefault("notes_file", def.NotesFile)
	v.SetDefault("init_script", def.InitScript)
	v.SetDefault("editor", "")
	v.SetDefault("ide", "")
	v.SetDefault("git_timeout", def.GitTimeout)
	v.SetDefault("fetch_timeout", def.FetchTimeout)
	v.SetDefault("log_file", "")
	_ = v.BindEnv("editor", "WTM_EDITOR")
	_ = v.BindEnv("log_file", "WTM_LOG_FILE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()
	applyEnvFallbacks(cfg)

	if cfg.Path != "" {
		bindings, err := loadShortcuts(cfg.Path)
		if err != nil {
			return nil, err
		}
		cfg.Shortcuts = bindings
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvFallbacks(cfg *Config) {
	if cfg.Editor == "" {
		cfg.Editor = firstEnv("VISUAL", "EDITOR")
	}
	if cfg.Editor == "" {
		cfg.Editor = defaultEditor
	}
	if cfg.IDE == "" {
		cfg.IDE = firstEnv("CODE_IDE")
	}
	if cfg.IDE == "" {
		cfg.IDE = defaultIDE
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) validate() error {
	switch c.PathPattern {
	case "sibling", "subdirectory":
	default:
		return fmt.Errorf("config: path_pattern must be sibling or subdirectory, got %q", c.PathPattern)
	}
	if c.GitTimeout <= 0 || c.FetchTimeout <= 0 {
		return errors.New("config: git_timeout and fetch_timeout must be positive")
	}
	if c.NotesFile == "" {
		c.NotesFile = notes.DefaultFile
	}
	return nil
}

type shortcutEntry struct {
	Action string `toml:"action,omitempty"`
	Cmd    string `toml:"cmd,omitempty"`
	Mode   string `toml:"mode,omitempty"`
}

// loadShortcuts decodes the [shortcuts] table on its own so key case and
// file order survive.
func loadShortcuts(path string) ([]shortcut.Binding, error) {
	var raw struct {
		Shortcuts map[string]shortcutEntry `toml:"shortcuts"`
	}
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("read shortcuts: %w", err)
	}
	for _, key := range md.Undecoded() {
		if len(key) == 3 && key[0] == "shortcuts" {
			return nil, &shortcut.InvalidActionError{Key: key[1], Detail: fmt.Sprintf("unknown field %q", key[2])}
		}
	}
	var bindings []shortcut.Binding
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "shortcuts" {
			continue
		}
		e := raw.Shortcuts[key[1]]
		bindings = append(bindings, shortcut.Binding{Key: key[1], Action: e.Action, Cmd: e.Cmd, Mode: e.Mode})
	}
	return bindings, nil
}

type fileLayout struct {
	MainBranch   string                   `toml:"main_branch"`
	PathPattern  string                   `toml:"path_pattern"`
	NotesFile    string                   `toml:"notes_file"`
	InitScript   string                   `toml:"init_script"`
	Editor       string                   `toml:"editor"`
	IDE          string                   `toml:"ide"`
	GitTimeout   string                   `toml:"git_timeout"`
	FetchTimeout string                   `toml:"fetch_timeout"`
	Shortcuts    map[string]shortcutEntry `toml:"shortcuts"`
}

const fileHeader = `# wtm configuration.
#
# main_branch is detected (main, then master) when left empty.
# path_pattern: "sibling" puts worktrees next to the repository as <repo>-<branch>,
# "subdirectory" puts them under <repo>/.worktrees/<branch>.
#
# Shortcuts bind a key to a built-in action
#   (create, delete, edit, merge_main, toggle_view, refresh, help, quit, cd)
# or to a shell command run in the selected worktree. Commands may use
# $path ($1), $branch ($2) and $repo. mode = "replace" hands over the terminal
# until the command exits; mode = "detach" starts it in the background.
#
# j, k, up, down, tab and ctrl+c are reserved for navigation.

`

// DefaultFile renders the default config with the built-in shortcuts.
func DefaultFile() ([]byte, error) {
	def := Default()
	layout := fileLayout{
		PathPattern:  def.PathPattern,
		NotesFile:    def.NotesFile,
		InitScript:   def.InitScript,
		Editor:       def.Editor,
		IDE:          def.IDE,
		GitTimeout:   def.GitTimeout.String(),
		FetchTimeout: def.FetchTimeout.String(),
		Shortcuts:    map[string]shortcutEntry{},
	}
	for _, b := range shortcut.Defaults(def.IDE) {
		layout.Shortcuts[b.Key] = shortcutEntry{Action: b.Action, Cmd: b.Cmd, Mode: b.Mode}
	}
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes DefaultFile to path, refusing to overwrite unless force.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	data, err := DefaultFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
