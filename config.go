package emil

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the small set of user-tunable knobs read from
// ~/.config/emil/emil.toml. Unset fields fall back to DefaultConfig.
// EditorState stores the loaded Config but does not apply it: the tab
// stop, indent width and undo limit in effect are the package constants
// TabStop, Indent and UndoLimit, and WordWrap and Theme are not used.
type Config struct {
	TabStop     int    `toml:"tab_stop"`
	IndentWidth int    `toml:"indent_width"`
	UndoLimit   int    `toml:"undo_limit"`
	WordWrap    bool   `toml:"word_wrap"`
	Theme       string `toml:"theme"`
}

// DefaultConfig returns the built-in defaults, used whenever no config
// file is present or a field is left unset.
func DefaultConfig() Config {
	return Config{
		TabStop:     TabStop,
		IndentWidth: Indent,
		UndoLimit:   UndoLimit,
		WordWrap:    false,
		Theme:       "default",
	}
}

// LoadConfig reads path, merging found fields over DefaultConfig. A
// missing file is not an error; it just means the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, wrapError(KindIOFailed, "read config", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, wrapError(KindIOFailed, "parse config", err)
	}
	if cfg.TabStop <= 0 {
		cfg.TabStop = TabStop
	}
	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = Indent
	}
	if cfg.UndoLimit <= 0 {
		cfg.UndoLimit = UndoLimit
	}
	return cfg, nil
}

// DefaultConfigPath returns the standard config file location,
// $XDG_CONFIG_HOME/emil/emil.toml or ~/.config/emil/emil.toml.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "emil", "emil.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "emil", "emil.toml")
}
