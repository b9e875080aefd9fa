package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/world-clocks/internal/config"
)

// City is one entry of the static catalogue. It is immutable once loaded.
type City struct {
	// Zone is the IANA time zone identifier (e.g. "America/New_York").
	Zone string `yaml:"zone"`

	// Label is the display name shown under the clock face.
	Label string `yaml:"label"`

	// loc is resolved from Zone when the catalogue loads.
	loc *time.Location
}

// Location returns the resolved zone, falling back to UTC for a City that
// did not come from the catalogue loader.
func (c City) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// CivilTime resolves the wall clock reading of this city at ref.
func (c City) CivilTime(ref time.Time) CivilTime {
	return ResolveCivilTime(c.Location(), ref)
}

// CivilTime is what a zone's wall clock shows at a given absolute instant.
type CivilTime struct {
	// Hour uses the 12-hour convention (1-12, midnight and noon are 12).
	Hour   int
	Minute int
	Second int

	// PM is true from noon until midnight.
	PM bool

	// Abbrev is the zone abbreviation in effect (e.g. "EDT").
	Abbrev string

	// Offset is the UTC offset in effect, in seconds east of UTC.
	Offset int
}

// String renders the reading as "2:30:00 PM".
func (c CivilTime) String() string {
	period := config.PeriodAM
	if c.PM {
		period = config.PeriodPM
	}
	return fmt.Sprintf(config.FormatCivilTime, c.Hour, c.Minute, c.Second, period)
}

// Hour24 converts the reading back to the 0-23 convention.
func (c CivilTime) Hour24() int {
	h := c.Hour % 12
	if c.PM {
		h += 12
	}
	return h
}

// OffsetString renders the UTC offset as "UTC+05:30".
func (c CivilTime) OffsetString() string {
	offset := c.Offset
	sign := config.SignPlus
	if offset < 0 {
		sign = config.SignMinus
		offset = -offset
	}
	return fmt.Sprintf(config.FormatOffset, sign, offset/3600, (offset%3600)/60)
}

// HandAngles holds the rotation of each hand, in degrees. 0° points right
// and angles grow clockwise, so 12 o'clock is -90°.
type HandAngles struct {
	Hour   float64
	Minute float64
	Second float64
}

// Reading is the resolved state of one clock for one refresh.
type Reading struct {
	Index int
	City  City
	Time  CivilTime
	Hands HandAngles
}

// Snapshot is the result of one refresh: every city evaluated against the
// same reference instant.
type Snapshot struct {
	Mode      Mode
	Reference time.Time
	Readings  []Reading
}
