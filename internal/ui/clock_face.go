package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
)

const ticksOnDial = 12

// ClockFace is an analog clock widget: a circular dial with twelve tick
// marks, three hands and a centre dot, captioned with the city label and
// its digital time.
// Its setters must be called from the Fyne goroutine.
type ClockFace struct {
	widget.BaseWidget

	Label   string
	caption string
	hands   engine.HandAngles
}

// NewClockFace creates a face for the given city label. Hands start at
// twelve o'clock until the first snapshot arrives.
func NewClockFace(label string) *ClockFace {
	f := &ClockFace{
		Label: label,
		hands: engine.HandAngles{Hour: -90, Minute: -90, Second: -90},
	}
	f.ExtendBaseWidget(f)
	return f
}

// SetAngles moves the hands, in degrees clockwise from 3 o'clock.
func (f *ClockFace) SetAngles(h engine.HandAngles) {
	if f.hands == h {
		return
	}
	f.hands = h
	f.Refresh()
}

// Angles returns the angles the hands are drawn at.
func (f *ClockFace) Angles() engine.HandAngles {
	return f.hands
}

// SetCaption sets the digital time shown under the label.
func (f *ClockFace) SetCaption(text string) {
	if f.caption == text {
		return
	}
	f.caption = text
	f.Refresh()
}

// Caption returns the digital time shown under the label.
func (f *ClockFace) Caption() string {
	return f.caption
}

// CreateRenderer implements fyne.Widget.
func (f *ClockFace) CreateRenderer() fyne.WidgetRenderer {
	r := &clockFaceRenderer{
		face:    f,
		dial:    canvas.NewCircle(color.Transparent),
		pivot:   canvas.NewCircle(color.Transparent),
		hour:    canvas.NewLine(color.Transparent),
		minute:  canvas.NewLine(color.Transparent),
		second:  canvas.NewLine(color.Transparent),
		label:   canvas.NewText(f.Label, color.Transparent),
		caption: canvas.NewText(f.caption, color.Transparent),
	}
	r.label.Alignment = fyne.TextAlignCenter
	r.label.TextStyle = fyne.TextStyle{Bold: true}
	r.caption.Alignment = fyne.TextAlignCenter
	r.caption.TextStyle = fyne.TextStyle{Monospace: true}

	r.dial.StrokeWidth = config.FaceStrokeWidth
	r.hour.StrokeWidth = config.HourHandWidth
	r.minute.StrokeWidth = config.MinuteHandWidth
	r.second.StrokeWidth = config.SecondHandWidth

	r.objects = []fyne.CanvasObject{r.dial}
	for i := 0; i < ticksOnDial; i++ {
		tick := canvas.NewLine(color.Transparent)
		tick.StrokeWidth = config.TickWidth
		r.ticks = append(r.ticks, tick)
		r.objects = append(r.objects, tick)
	}
	r.objects = append(r.objects, r.hour, r.minute, r.second, r.pivot, r.label, r.caption)

	r.applyTheme()
	return r
}

type clockFaceRenderer struct {
	face *ClockFace

	dial    *canvas.Circle
	pivot   *canvas.Circle
	ticks   []*canvas.Line
	hour    *canvas.Line
	minute  *canvas.Line
	second  *canvas.Line
	label   *canvas.Text
	caption *canvas.Text

	objects []fyne.CanvasObject
}

func (r *clockFaceRenderer) Layout(size fyne.Size) {
	lineHeight := r.lineHeight()
	dialHeight := size.Height - 2*lineHeight

	center, radius := dialGeometry(fyne.NewSize(size.Width, dialHeight))
	if radius <= 0 {
		return
	}

	r.dial.Move(fyne.NewPos(center.X-radius, center.Y-radius))
	r.dial.Resize(fyne.NewSquareSize(2 * radius))

	for i, tick := range r.ticks {
		deg := float64(i) * 360 / ticksOnDial
		tick.Position1 = handEnd(center, radius*config.TickInnerRatio, deg)
		tick.Position2 = handEnd(center, radius*config.TickOuterRatio, deg)
	}

	hands := r.face.hands
	placeHand(r.hour, center, radius*config.HourHandRatio, hands.Hour)
	placeHand(r.minute, center, radius*config.MinuteHandRatio, hands.Minute)
	placeHand(r.second, center, radius*config.SecondHandRatio, hands.Second)

	dot := radius * config.CenterDotRatio
	r.pivot.Move(fyne.NewPos(center.X-dot, center.Y-dot))
	r.pivot.Resize(fyne.NewSquareSize(2 * dot))

	r.label.Move(fyne.NewPos(0, dialHeight))
	r.label.Resize(fyne.NewSize(size.Width, lineHeight))
	r.caption.Move(fyne.NewPos(0, dialHeight+lineHeight))
	r.caption.Resize(fyne.NewSize(size.Width, lineHeight))
}

// MinSize keeps the dial at its nominal size above the two text lines.
func (r *clockFaceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(config.ClockFaceSize, config.ClockFaceSize+2*r.lineHeight())
}

func (r *clockFaceRenderer) Refresh() {
	r.label.Text = r.face.Label
	r.caption.Text = r.face.caption
	r.applyTheme()
	r.Layout(r.face.Size())

	for _, o := range r.objects {
		canvas.Refresh(o)
	}
}

func (r *clockFaceRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *clockFaceRenderer) Destroy() {}

func (r *clockFaceRenderer) applyTheme() {
	fg := theme.Color(theme.ColorNameForeground)
	accent := theme.Color(theme.ColorNamePrimary)

	r.dial.FillColor = theme.Color(theme.ColorNameInputBackground)
	r.dial.StrokeColor = fg
	for _, tick := range r.ticks {
		tick.StrokeColor = fg
	}
	r.hour.StrokeColor = fg
	r.minute.StrokeColor = fg
	r.second.StrokeColor = accent
	r.pivot.FillColor = accent
	r.label.Color = fg
	r.caption.Color = fg
}

func (r *clockFaceRenderer) lineHeight() float32 {
	return fyne.MeasureText(config.PlaceholderReference, theme.TextSize(), fyne.TextStyle{}).Height + theme.Padding()
}

// dialGeometry returns the centre and radius of the largest circle that
// fits in size, leaving room for the dial stroke.
func dialGeometry(size fyne.Size) (fyne.Position, float32) {
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	center := fyne.NewPos(size.Width/2, size.Height/2)
	return center, side/2 - config.FaceStrokeWidth
}

// handEnd returns the point at length from center along the given angle,
// in degrees clockwise from 3 o'clock. Screen Y grows downwards, so -90
// points at 12 o'clock.
func handEnd(center fyne.Position, length float32, degrees float64) fyne.Position {
	rad := degrees * math.Pi / 180
	return fyne.NewPos(
		center.X+length*float32(math.Cos(rad)),
		center.Y+length*float32(math.Sin(rad)),
	)
}

func placeHand(hand *canvas.Line, center fyne.Position, length float32, degrees float64) {
	hand.Position1 = center
	hand.Position2 = handEnd(center, length, degrees)
}
