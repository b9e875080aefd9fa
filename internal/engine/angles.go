package engine

const (
	degreesPerHour   = 30.0
	degreesPerMinute = 6.0
	degreesPerSecond = 6.0
	twelveOClock     = -90.0
	minutesPerHour   = 60.0
	secondsPerMinute = 60.0
	hoursOnDial      = 12
)

// HourAngle returns the hour hand rotation. hour12 may be 0-11 or 1-12; the
// modulo makes both conventions equivalent.
func HourAngle(hour12, minute int) float64 {
	return (float64(hour12%hoursOnDial)+float64(minute)/minutesPerHour)*degreesPerHour + twelveOClock
}

// MinuteAngle returns the minute hand rotation, advancing 0.1° per second.
func MinuteAngle(minute, second int) float64 {
	return float64(minute)*degreesPerMinute + float64(second)*degreesPerMinute/secondsPerMinute + twelveOClock
}

// SecondAngle returns the second hand rotation. Inputs are not wrapped.
func SecondAngle(second int) float64 {
	return float64(second)*degreesPerSecond + twelveOClock
}

// AnglesFor computes all three hands for a civil time reading.
func AnglesFor(c CivilTime) HandAngles {
	return HandAngles{
		Hour:   HourAngle(c.Hour, c.Minute),
		Minute: MinuteAngle(c.Minute, c.Second),
		Second: SecondAngle(c.Second),
	}
}
