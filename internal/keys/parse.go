// Package keys parses configurable key bindings such as "f", "Ctrl+r",
// "Alt+1" or "F5" and matches them against terminal key events.
package keys

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Binding is a normalized key combination. Letters are lower case and carry
// no Shift, since terminals do not report Shift reliably for them.
type Binding struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

func runeBinding(r rune, mod tcell.ModMask) Binding {
	if unicode.IsLetter(r) {
		mod &^= tcell.ModShift
	}

	return Binding{Key: tcell.KeyRune, Rune: unicode.ToLower(r), Mod: mod}
}

var modifiers = map[string]tcell.ModMask{
	"ctrl": tcell.ModCtrl, "control": tcell.ModCtrl,
	"alt": tcell.ModAlt, "opt": tcell.ModAlt, "option": tcell.ModAlt,
	"shift": tcell.ModShift,
	"meta":  tcell.ModMeta, "win": tcell.ModMeta, "cmd": tcell.ModMeta, "super": tcell.ModMeta,
}

var namedKeys = map[string]tcell.Key{
	"tab": tcell.KeyTab, "backtab": tcell.KeyBacktab,
	"enter": tcell.KeyEnter, "return": tcell.KeyEnter,
	"esc": tcell.KeyEsc, "escape": tcell.KeyEsc,
	"up": tcell.KeyUp, "down": tcell.KeyDown, "left": tcell.KeyLeft, "right": tcell.KeyRight,
	"home": tcell.KeyHome, "end": tcell.KeyEnd, "pgup": tcell.KeyPgUp, "pgdn": tcell.KeyPgDn,
	"delete": tcell.KeyDelete, "backspace": tcell.KeyBackspace2,
}

// Parse reads a spec of zero or more modifiers and a key joined by "+".
// "Space" names the space bar and a lone "+" is the plus key.
func Parse(spec string) (Binding, error) {
	if strings.TrimSpace(spec) == "" {
		return Binding{}, fmt.Errorf("empty key specification")
	}

	if spec == "+" {
		return runeBinding('+', 0), nil
	}

	parts := strings.Split(spec, "+")
	base := strings.TrimSpace(parts[len(parts)-1])

	var mod tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		name := strings.ToLower(strings.TrimSpace(p))
		if name == "" {
			continue
		}

		m, ok := modifiers[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q", p)
		}
		mod |= m
	}

	lower := strings.ToLower(base)

	switch key, named := namedKeys[lower]; {
	case lower == "space":
		return runeBinding(' ', mod), nil
	case named && key == tcell.KeyTab && mod == tcell.ModShift:
		return Binding{Key: tcell.KeyBacktab}, nil
	case named:
		return Binding{Key: key, Mod: mod}, nil
	}

	if n, ok := functionKey(lower); ok {
		return Binding{Key: tcell.KeyF1 + tcell.Key(n-1), Mod: mod}, nil
	}

	if runes := []rune(base); len(runes) == 1 {
		return runeBinding(runes[0], mod), nil
	}

	return Binding{}, fmt.Errorf("unknown key %q", base)
}

// functionKey reports n for "f1" through "f12".
func functionKey(s string) (int, bool) {
	digits, ok := strings.CutPrefix(s, "f")
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(digits)

	return n, err == nil && n >= 1 && n <= 12
}

// Validate returns an error if spec is not a recognized binding.
func Validate(spec string) error {
	_, err := Parse(spec)
	return err
}

// ID identifies the combination, for duplicate detection.
func (b Binding) ID() string {
	return fmt.Sprintf("%d:%d:%d", b.Key, b.Rune, b.Mod)
}

// Reserved reports whether b drives navigation or terminal job control and
// must not be rebound.
func (b Binding) Reserved() bool {
	switch b.Mod {
	case 0:
		switch b.Key {
		case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
			tcell.KeyEsc, tcell.KeyEnter, tcell.KeyBackspace, tcell.KeyBackspace2,
			tcell.KeyTab, tcell.KeyBacktab:
			return true
		case tcell.KeyRune:
			return strings.ContainsRune("hjklq", b.Rune)
		}
	case tcell.ModCtrl:
		return b.Key == tcell.KeyRune && strings.ContainsRune("cdz", b.Rune)
	}

	return false
}

// FromEvent normalizes a key event. Ctrl+letter arrives as KeyCtrlX and is
// turned into the letter with ModCtrl; Tab and Enter keep their keys.
func FromEvent(ev *tcell.EventKey) Binding {
	key, mod := ev.Key(), ev.Modifiers()

	switch {
	case key == tcell.KeyRune:
		return runeBinding(ev.Rune(), mod)
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ && mod&tcell.ModCtrl != 0:
		return Binding{Key: tcell.KeyRune, Rune: 'a' + rune(key-tcell.KeyCtrlA), Mod: mod}
	default:
		return Binding{Key: key, Rune: ev.Rune(), Mod: mod}
	}
}

// parsed caches Parse results; Matches runs for every binding on every key
// press.
var parsed sync.Map

// Matches reports whether ev triggers spec. Invalid specs never match.
func Matches(ev *tcell.EventKey, spec string) bool {
	var b Binding

	if v, ok := parsed.Load(spec); ok {
		b = v.(Binding)
	} else {
		var err error
		if b, err = Parse(spec); err != nil {
			return false
		}
		parsed.Store(spec, b)
	}

	return FromEvent(ev) == b
}
