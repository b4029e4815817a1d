package catalog

import (
	"strings"
)

// Key is a keyboard event: a key name plus modifier state.
type Key struct {
	Name string
	Ctrl bool
	Meta bool
}

// ParseKey reads a chord such as "esc", "ctrl+k" or "cmd+k".
func ParseKey(s string) Key {
	var k Key
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl", "control":
			k.Ctrl = true
		case "cmd", "meta", "super":
			k.Meta = true
		}
	}
	k.Name = parts[len(parts)-1]
	if k.Name == "esc" {
		k.Name = "escape"
	}
	return k
}

// HandleKey applies a global shortcut. Escape closes every dialog, drops
// the edit selection and leaves the search field; Ctrl+K or Cmd+K focuses
// the search field. The bool reports whether the key was consumed.
func HandleKey(st State, k Key) (State, bool) {
	switch {
	case k.Name == "escape":
		next := CloseEdit(CloseAdd(st))
		next.Dialogs = Dialogs{}
		next.SearchFocused = false
		return next, true
	case k.Name == "k" && (k.Ctrl || k.Meta):
		next := st.clone()
		next.SearchFocused = true
		return next, true
	default:
		return st, false
	}
}
