package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/readline"
	"github.com/lixenwraith/readline/terminal"
)

// Config holds the demo settings read from the TOML file
type Config struct {
	Prompt      string `toml:"prompt"`
	AltPrompt   string `toml:"alt_prompt"`
	Placeholder string `toml:"placeholder"`
	HistorySize int    `toml:"history_size"`
	HistoryFile string `toml:"history_file"`

	// Keys rebinds keys by name, e.g. ctrl_t = "clear_screen" or tab = "none"
	Keys map[string]string `toml:"keys"`
}

func defaultConfig() Config {
	return Config{
		Prompt:      ">>> ",
		AltPrompt:   "... ",
		Placeholder: "Enter a command",
		HistorySize: 100,
	}
}

// loadConfig reads path over the defaults; an empty path returns the defaults
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.HistorySize < 0 {
		return errors.New("history_size must not be negative")
	}
	if strings.ContainsAny(c.Prompt+c.AltPrompt+c.Placeholder, "\r\n") {
		return errors.New("prompts must be single-line")
	}
	if _, err := c.keyBindings(); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	return nil
}

func (c Config) keyBindings() (map[terminal.Key]readline.Action, error) {
	return readline.ParseKeyBindings(c.Keys)
}
