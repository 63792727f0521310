package swirl

import "time"

// Observer receives animator events, typically to export metrics.
// Methods are called synchronously and must not block.
type Observer interface {
	// ObserveRender reports a finished render job. kind is "still" or a
	// Transition kind; frames counts primary frames, dimmed reports
	// whether a dimmed sequence was rendered alongside.
	ObserveRender(kind string, frames int, dimmed bool, elapsed time.Duration)
	// ObserveCoalesced reports a render job dropped in favor of a newer one.
	ObserveCoalesced(kind string)
	// ObserveDelivery reports a delivery handed to the display and the
	// number of clones that received its dimmed variant.
	ObserveDelivery(frames, clones int)
}

type nopObserver struct{}

func (nopObserver) ObserveRender(string, int, bool, time.Duration) {}
func (nopObserver) ObserveCoalesced(string)                        {}
func (nopObserver) ObserveDelivery(int, int)                       {}
