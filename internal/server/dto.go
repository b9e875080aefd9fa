package server

import (
	"time"

	"github.com/tartampluch/world-clocks/internal/engine"
)

// snapshotDTO is the wire form of engine.Snapshot.
type snapshotDTO struct {
	Mode      string       `json:"mode"`
	Reference string       `json:"reference"`
	Clocks    []readingDTO `json:"clocks"`
}

type readingDTO struct {
	Index  int      `json:"index"`
	Zone   string   `json:"zone"`
	Label  string   `json:"label"`
	Time   string   `json:"time"`
	Hour   int      `json:"hour"`
	Minute int      `json:"minute"`
	Second int      `json:"second"`
	PM     bool     `json:"pm"`
	Abbrev string   `json:"abbrev"`
	Offset int      `json:"utc_offset_seconds"`
	Hands  handsDTO `json:"hands"`
}

type handsDTO struct {
	Hour   float64 `json:"hour"`
	Minute float64 `json:"minute"`
	Second float64 `json:"second"`
}

func newSnapshotDTO(s engine.Snapshot) snapshotDTO {
	clocks := make([]readingDTO, len(s.Readings))
	for i, r := range s.Readings {
		clocks[i] = newReadingDTO(r)
	}
	return snapshotDTO{
		Mode:      s.Mode.String(),
		Reference: s.Reference.UTC().Format(time.RFC3339),
		Clocks:    clocks,
	}
}

func newReadingDTO(r engine.Reading) readingDTO {
	return readingDTO{
		Index:  r.Index,
		Zone:   r.City.Zone,
		Label:  r.City.Label,
		Time:   r.Time.String(),
		Hour:   r.Time.Hour,
		Minute: r.Time.Minute,
		Second: r.Time.Second,
		PM:     r.Time.PM,
		Abbrev: r.Time.Abbrev,
		Offset: r.Time.Offset,
		Hands: handsDTO{
			Hour:   r.Hands.Hour,
			Minute: r.Hands.Minute,
			Second: r.Hands.Second,
		},
	}
}
