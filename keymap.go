package readline

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/readline/terminal"
)

// Action is an editing command a key can be bound to
type Action uint8

const (
	ActionNone Action = iota // Key does nothing
	ActionAccept
	ActionContinueLine
	ActionDeleteOrEOF // Delete under cursor, EOF on an empty line
	ActionDeleteBackward
	ActionDeleteForward
	ActionDeleteWordBackward
	ActionKillToEnd
	ActionKillToStart
	ActionMoveLeft
	ActionMoveRight
	ActionWordLeft
	ActionWordRight
	ActionLineStart
	ActionLineEnd
	ActionHistoryPrev
	ActionHistoryNext
	ActionClearScreen
)

var actionToName = map[Action]string{
	ActionNone:               "none",
	ActionAccept:             "accept",
	ActionContinueLine:       "continue_line",
	ActionDeleteOrEOF:        "delete_or_eof",
	ActionDeleteBackward:     "delete_backward",
	ActionDeleteForward:      "delete_forward",
	ActionDeleteWordBackward: "delete_word_backward",
	ActionKillToEnd:          "kill_to_end",
	ActionKillToStart:        "kill_to_start",
	ActionMoveLeft:           "move_left",
	ActionMoveRight:          "move_right",
	ActionWordLeft:           "word_left",
	ActionWordRight:          "word_right",
	ActionLineStart:          "line_start",
	ActionLineEnd:            "line_end",
	ActionHistoryPrev:        "history_prev",
	ActionHistoryNext:        "history_next",
	ActionClearScreen:        "clear_screen",
}

var nameToAction map[string]Action

func init() {
	nameToAction = make(map[string]Action, len(actionToName))
	for a, name := range actionToName {
		nameToAction[name] = a
	}
}

func (a Action) String() string {
	if name, ok := actionToName[a]; ok {
		return name
	}
	return "unknown"
}

// ActionByName resolves an action name, case-insensitive
func ActionByName(name string) (Action, bool) {
	a, ok := nameToAction[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// ParseKeyBindings resolves key name to action name pairs, as read from a config table.
// Key names are those of terminal.KeyByName; Ctrl+C and plain runes cannot be rebound.
func ParseKeyBindings(raw map[string]string) (map[terminal.Key]Action, error) {
	bindings := make(map[terminal.Key]Action, len(raw))
	for keyStr, actionStr := range raw {
		k, ok := terminal.KeyByName(strings.ToLower(keyStr))
		if !ok {
			return nil, fmt.Errorf("unknown key name: %q", keyStr)
		}
		a, ok := ActionByName(actionStr)
		if !ok {
			return nil, fmt.Errorf("key %q: unknown action: %q", keyStr, actionStr)
		}
		bindings[k] = a
	}
	return bindings, nil
}

// defaultAction maps a key event to its built-in action
func defaultAction(ev terminal.Event) Action {
	word := ev.Modifiers&(terminal.ModCtrl|terminal.ModAlt) != 0
	alt := ev.Modifiers&terminal.ModAlt != 0

	switch ev.Key {
	case terminal.KeyRune:
		// Alt+b / Alt+f word motion
		if alt && ev.Rune == 'b' {
			return ActionWordLeft
		}
		if alt && ev.Rune == 'f' {
			return ActionWordRight
		}
	case terminal.KeyEnter:
		if alt {
			return ActionContinueLine
		}
		return ActionAccept
	case terminal.KeyCtrlD:
		return ActionDeleteOrEOF
	case terminal.KeyBackspace:
		if alt {
			return ActionDeleteWordBackward
		}
		return ActionDeleteBackward
	case terminal.KeyDelete:
		return ActionDeleteForward
	case terminal.KeyCtrlK:
		return ActionKillToEnd
	case terminal.KeyCtrlU:
		return ActionKillToStart
	case terminal.KeyCtrlW:
		return ActionDeleteWordBackward
	case terminal.KeyLeft, terminal.KeyCtrlB:
		if word {
			return ActionWordLeft
		}
		return ActionMoveLeft
	case terminal.KeyRight, terminal.KeyCtrlF:
		if word {
			return ActionWordRight
		}
		return ActionMoveRight
	case terminal.KeyHome, terminal.KeyCtrlA:
		return ActionLineStart
	case terminal.KeyEnd, terminal.KeyCtrlE:
		return ActionLineEnd
	case terminal.KeyUp, terminal.KeyCtrlP:
		return ActionHistoryPrev
	case terminal.KeyDown, terminal.KeyCtrlN:
		return ActionHistoryNext
	case terminal.KeyCtrlL:
		return ActionClearScreen
	}
	return ActionNone
}
