package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/world-clocks/internal/config"
)

// ErrInvalidReference is returned for reference text that is not a 24-hour
// H:MM or HH:MM value.
var ErrInvalidReference = errors.New(config.ErrInvalidReference)

// ParseReference validates a reference time entered by the user. Empty text
// is not valid here; callers treat it as "back to live time".
func ParseReference(text string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(text), config.ReferenceSeparator)
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, text)
	}

	hour, errH := parseDigits(h)
	minute, errM := parseDigits(m)
	if errH != nil || errM != nil ||
		hour > config.MaxReferenceHour || minute > config.MaxReferenceMinute {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, text)
	}
	return hour, minute, nil
}

// FormatReference renders hour and minute as HH:MM.
func FormatReference(hour, minute int) string {
	return fmt.Sprintf(config.FormatReference, hour, minute)
}

// parseDigits rejects signs and spaces that strconv.Atoi would accept.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
