package readline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/readline"
	"github.com/lixenwraith/readline/terminal"
)

// TestParseKeyBindings verifies key and action names resolve case-insensitively
func TestParseKeyBindings(t *testing.T) {
	got, err := readline.ParseKeyBindings(map[string]string{
		"Ctrl_T": "CLEAR_SCREEN",
		"esc":    "kill_to_start",
		"up":     " none ",
	})
	require.NoError(t, err)
	assert.Equal(t, map[terminal.Key]readline.Action{
		terminal.KeyCtrlT:  readline.ActionClearScreen,
		terminal.KeyEscape: readline.ActionKillToStart,
		terminal.KeyUp:     readline.ActionNone,
	}, got)

	_, err = readline.ParseKeyBindings(map[string]string{"hyper_q": "accept"})
	assert.ErrorContains(t, err, "unknown key name")
	_, err = readline.ParseKeyBindings(map[string]string{"tab": "complete"})
	assert.ErrorContains(t, err, "unknown action")
}

// TestActionNames verifies every action name resolves back to itself
func TestActionNames(t *testing.T) {
	for a := readline.ActionNone; a <= readline.ActionClearScreen; a++ {
		got, ok := readline.ActionByName(a.String())
		require.True(t, ok, "action %d", a)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "unknown", readline.Action(200).String())
}

// TestReadlineKeyBindings verifies custom bindings override defaults for unmodified keys
func TestReadlineKeyBindings(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[terminal.Key]readline.Action
		input    string
		want     string
	}{
		{
			name:     "tab to line start",
			bindings: map[terminal.Key]readline.Action{terminal.KeyTab: readline.ActionLineStart},
			input:    "bc\tA\r",
			want:     "Abc",
		},
		{
			name:     "disabled kill",
			bindings: map[terminal.Key]readline.Action{terminal.KeyCtrlK: readline.ActionNone},
			input:    "abc" + keyHome + "\x0b\r",
			want:     "abc",
		},
		{
			name:     "ctrl d no longer ends input",
			bindings: map[terminal.Key]readline.Action{terminal.KeyCtrlD: readline.ActionNone},
			input:    ctrlD + "x\r",
			want:     "x",
		},
		{
			name:     "modified key keeps default",
			bindings: map[terminal.Key]readline.Action{terminal.KeyLeft: readline.ActionNone},
			input:    "foo bar\x1b[1;5DX\r",
			want:     "foo Xbar",
		},
		{
			name:     "escape submits",
			bindings: map[terminal.Key]readline.Action{terminal.KeyEscape: readline.ActionAccept},
			input:    "done\x1b",
			want:     "done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, be := newSession(t, readline.WithKeyBindings(tt.bindings))
			line, err := readLine(t, s, be, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)
		})
	}
}
