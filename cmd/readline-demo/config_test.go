package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/readline"
	"github.com/lixenwraith/readline/terminal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// TestLoadConfigDefaults verifies an empty path yields the built-in settings
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, ">>> ", cfg.Prompt)
	assert.Equal(t, 100, cfg.HistorySize)
}

// TestLoadConfigFile verifies file values override defaults key by key
func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
prompt = "$ "
history_size = 5
history_file = "/tmp/demo_history"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, "... ", cfg.AltPrompt, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.HistorySize)
	assert.Equal(t, "/tmp/demo_history", cfg.HistoryFile)
}

// TestLoadConfigKeys verifies the [keys] table resolves to session bindings
func TestLoadConfigKeys(t *testing.T) {
	path := writeConfig(t, `
[keys]
ctrl_t = "clear_screen"
TAB = "line_start"
ctrl_d = "none"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	bindings, err := cfg.keyBindings()
	require.NoError(t, err)
	assert.Equal(t, map[terminal.Key]readline.Action{
		terminal.KeyCtrlT: readline.ActionClearScreen,
		terminal.KeyTab:   readline.ActionLineStart,
		terminal.KeyCtrlD: readline.ActionNone,
	}, bindings)
}

// TestLoadConfigErrors verifies malformed and invalid files are rejected
func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `prompt = `},
		{"wrong type", `history_size = "many"`},
		{"unknown key", `promt = "> "`},
		{"negative history", `history_size = -1`},
		{"multi-line prompt", `prompt = "a\nb"`},
		{"unknown key name", "[keys]\nhyper_q = \"accept\""},
		{"unknown action", "[keys]\nctrl_t = \"launch\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
