package engine

import "github.com/jonboulle/clockwork"

// Clock abstracts time.Now() and tickers to allow deterministic testing.
// The Refresher samples the live reference instant from it and drives its
// periodic task with its tickers.
type Clock = clockwork.Clock

// NewRealClock returns a Clock backed by the standard time package.
func NewRealClock() Clock {
	return clockwork.NewRealClock()
}
