package swirl

import "time"

// Ticker delivers periodic ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickSource creates a Ticker firing every period.
type TickSource func(period time.Duration) Ticker

// SystemTicks is the default TickSource, backed by time.Ticker.
func SystemTicks(period time.Duration) Ticker {
	return systemTicker{time.NewTicker(period)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
