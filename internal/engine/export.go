package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/world-clocks/internal/config"
)

// ExportICS renders the snapshot's reference instant as a single iCalendar
// event whose description lists every city's local time. stamp is used for
// DTSTAMP and converted to UTC.
func ExportICS(snap Snapshot, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	ref := snap.Reference.UTC()
	refIST := snap.Reference.In(ReferenceZone())

	// Same reference instant, same UID: clients update instead of duplicating.
	hash := sha256.Sum256([]byte(ref.Format(time.RFC3339)))
	uid := fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary,
		fmt.Sprintf(config.FormatICalSummary, FormatReference(refIST.Hour(), refIST.Minute())))

	lines := make([]string, 0, len(snap.Readings))
	for _, r := range snap.Readings {
		lines = append(lines, fmt.Sprintf(config.FormatICalLine, r.City.Label, r.Time))
	}
	event.Props.SetText(config.PropDescription, strings.Join(lines, "\n"))

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(stamp.UTC())
	event.Props.Set(dtStamp)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDateTime(ref)
	event.Props.Set(dtStart)

	duration := ical.NewProp(config.PropDuration)
	duration.SetDuration(config.DefaultEventDuration)
	event.Props.Set(duration)

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}
