package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
)

const geomDelta = 0.001

func TestHandEnd_Directions(t *testing.T) {
	center := fyne.NewPos(100, 100)

	tests := []struct {
		name    string
		degrees float64
		want    fyne.Position
	}{
		{"Twelve", -90, fyne.NewPos(100, 50)},
		{"Three", 0, fyne.NewPos(150, 100)},
		{"Six", 90, fyne.NewPos(100, 150)},
		{"Nine", 180, fyne.NewPos(50, 100)},
		{"NineViaNegative", -180, fyne.NewPos(50, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handEnd(center, 50, tt.degrees)
			assert.InDelta(t, tt.want.X, got.X, geomDelta)
			assert.InDelta(t, tt.want.Y, got.Y, geomDelta)
		})
	}
}

func TestDialGeometry_FitsSmallerSide(t *testing.T) {
	center, radius := dialGeometry(fyne.NewSize(200, 160))

	assert.Equal(t, fyne.NewPos(100, 80), center)
	assert.InDelta(t, 80-config.FaceStrokeWidth, radius, geomDelta)
}

func TestClockFace_StartsAtTwelve(t *testing.T) {
	face := NewClockFace("Paris")

	assert.Equal(t, "Paris", face.Label)
	assert.Equal(t, engine.HandAngles{Hour: -90, Minute: -90, Second: -90}, face.Angles())
	assert.Empty(t, face.Caption())
}

func TestClockFace_LayoutFollowsAngles(t *testing.T) {
	test.NewApp()

	face := NewClockFace("New York")
	w := test.NewWindow(face)
	defer w.Close()

	// 4:00:00 AM: hour hand at 4 o'clock, minute and second at 12.
	hands := engine.AnglesFor(engine.CivilTime{Hour: 4})
	face.SetAngles(hands)
	face.SetCaption("4:00:00 AM")

	r, ok := test.WidgetRenderer(face).(*clockFaceRenderer)
	require.True(t, ok)

	size := fyne.NewSize(config.ClockCellWidth, config.ClockCellHeight)
	face.Resize(size)
	r.Layout(size)

	center, radius := dialGeometry(fyne.NewSize(size.Width, size.Height-2*r.lineHeight()))

	assert.Equal(t, center, r.hour.Position1)
	wantHour := handEnd(center, radius*config.HourHandRatio, 30)
	assert.InDelta(t, wantHour.X, r.hour.Position2.X, geomDelta)
	assert.InDelta(t, wantHour.Y, r.hour.Position2.Y, geomDelta)

	// Minute hand points straight up.
	assert.InDelta(t, center.X, r.minute.Position2.X, geomDelta)
	assert.InDelta(t, center.Y-radius*config.MinuteHandRatio, r.minute.Position2.Y, geomDelta)

	assert.Len(t, r.ticks, ticksOnDial)
	assert.Equal(t, "New York", r.label.Text)
	assert.Equal(t, "4:00:00 AM", r.caption.Text)
}

func TestClockFace_MinSizeFitsDial(t *testing.T) {
	test.NewApp()

	face := NewClockFace("Tokyo")
	minSize := face.MinSize()

	assert.GreaterOrEqual(t, minSize.Width, float32(config.ClockFaceSize))
	assert.Greater(t, minSize.Height, float32(config.ClockFaceSize))
	assert.LessOrEqual(t, minSize.Width, float32(config.ClockCellWidth))
}
