package terminal

import "testing"

// TestKeyNameRoundTrip verifies every named key resolves back to itself
func TestKeyNameRoundTrip(t *testing.T) {
	for k, name := range keyToName {
		got, ok := KeyByName(name)
		if !ok {
			t.Errorf("KeyByName(%q) not found", name)
			continue
		}
		if got != k {
			t.Errorf("KeyByName(%q) = %v, want %v", name, got, k)
		}
		if k.String() != name {
			t.Errorf("Key(%d).String() = %q, want %q", k, k.String(), name)
		}
	}
}

// TestKeyNameAliases verifies the alternate spellings
func TestKeyNameAliases(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"esc", KeyEscape},
		{"return", KeyEnter},
	}
	for _, tt := range tests {
		if got, ok := KeyByName(tt.name); !ok || got != tt.want {
			t.Errorf("KeyByName(%q) = %v, %v; want %v", tt.name, got, ok, tt.want)
		}
	}

	if _, ok := KeyByName("hyper_q"); ok {
		t.Error("unknown name should not resolve")
	}
	if KeyRune.String() != "rune" || KeyNone.String() != "none" {
		t.Error("unnamed keys should have fixed labels")
	}
}

// TestCtrlLetterBlock verifies control bytes 0x01-0x1a map onto the contiguous Ctrl block
func TestCtrlLetterBlock(t *testing.T) {
	skip := map[byte]bool{0x03: true, 0x08: true, 0x09: true, 0x0a: true, 0x0d: true}
	for b := byte(0x01); b <= 0x1a; b++ {
		if skip[b] {
			continue
		}
		ev := controlEvent(b)
		want := KeyCtrlA + Key(b-0x01)
		if ev.Key != want {
			t.Errorf("controlEvent(%#x) = %v, want %v", b, ev.Key, want)
		}
	}
	if KeyName(KeyCtrlZ) != "ctrl_z" {
		t.Errorf("block end misaligned: %q", KeyName(KeyCtrlZ))
	}
}
