package engine

import (
	"time"

	"github.com/tartampluch/world-clocks/internal/config"
)

// referenceZone is Indian Standard Time. India observes no DST, so a fixed
// zone is exact and does not depend on the zone database.
var referenceZone = time.FixedZone(config.ReferenceZoneName, config.ReferenceZoneOffset)

// ReferenceZone returns the zone in which user-entered times are interpreted.
func ReferenceZone() *time.Location {
	return referenceZone
}

// ResolveCivilTime returns the wall clock reading in loc at the absolute
// instant ref. The zone database decides the offset, so DST transitions in
// effect at ref are honoured.
func ResolveCivilTime(loc *time.Location, ref time.Time) CivilTime {
	local := ref.In(loc)
	abbrev, offset := local.Zone()

	h := local.Hour()
	hour12 := h % 12
	if hour12 == 0 {
		hour12 = 12
	}

	return CivilTime{
		Hour:   hour12,
		Minute: local.Minute(),
		Second: local.Second(),
		PM:     h >= 12,
		Abbrev: abbrev,
		Offset: offset,
	}
}

// ComputePinnedInstant returns today's date at hour:minute:00 in the reference
// zone. "Today" is the calendar date in the reference zone at now, not the
// host's local date, so the result does not depend on where the app runs.
func ComputePinnedInstant(now time.Time, hour, minute int) time.Time {
	y, m, d := now.In(referenceZone).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, referenceZone)
}
