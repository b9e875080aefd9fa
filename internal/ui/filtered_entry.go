package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/world-clocks/internal/config"
)

// FilteredEntry is an Entry that drops typed runes its filter rejects.
// It embeds widget.Entry to inherit all standard behavior.
type FilteredEntry struct {
	widget.Entry
	accept func(r rune) bool
}

func newFilteredEntry(accept func(r rune) bool) *FilteredEntry {
	entry := &FilteredEntry{accept: accept}
	entry.ExtendBaseWidget(entry)
	return entry
}

// NewNumericalEntry creates an entry that only accepts digits (0-9).
func NewNumericalEntry() *FilteredEntry {
	return newFilteredEntry(isDigit)
}

// NewTimeEntry creates an entry for "HH:MM" values: digits and the
// separator only.
func NewTimeEntry() *FilteredEntry {
	return newFilteredEntry(func(r rune) bool {
		return isDigit(r) || string(r) == config.ReferenceSeparator
	})
}

// TypedRune intercepts text input events.
// Pasted text goes through TypedShortcut and is left to the Validator.
func (e *FilteredEntry) TypedRune(r rune) {
	if e.accept == nil || e.accept(r) {
		e.Entry.TypedRune(r)
	}
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *FilteredEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
