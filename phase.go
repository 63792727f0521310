package swirl

import "sync/atomic"

// sharedPhase is the process-wide animation phase. It starts at 0 and is
// only read or written by animators created with WithSharedPhase, so
// several backgrounds can continue each other's motion.
var sharedPhase atomic.Int32

// SharedPhase returns the process-wide animation phase.
func SharedPhase() int {
	return int(sharedPhase.Load())
}

func publishSharedPhase(phase int) {
	sharedPhase.Store(int32(WrapPhase(phase)))
}
