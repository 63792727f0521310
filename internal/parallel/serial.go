package parallel

import "sync"

// Serial runs posted functions one at a time, in posting order, on a
// single dedicated goroutine.
//
// It stands in for a UI main thread: everything that touches a display
// is posted here so no two deliveries ever interleave. Post never blocks,
// which makes it safe to call while holding locks that posted functions
// may themselves take.
type Serial struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	running bool // a function is executing right now
	closed  bool
	stopped chan struct{}
}

// NewSerial starts a serial executor.
func NewSerial() *Serial {
	s := &Serial{stopped: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

func (s *Serial) loop() {
	defer close(s.stopped)

	s.mu.Lock()
	for {
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}

		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.running = true
		s.mu.Unlock()

		fn()

		s.mu.Lock()
		s.running = false
		s.cond.Broadcast()
	}
}

// Post queues fn. Functions posted after Close are dropped.
func (s *Serial) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.queue = append(s.queue, fn)
	s.cond.Broadcast()
}

// Wait blocks until the queue is empty and nothing is executing.
// It must not be called from a posted function.
func (s *Serial) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 || s.running {
		s.cond.Wait()
	}
}

// Close runs the functions already queued, then stops the goroutine.
// Close is safe to call multiple times.
func (s *Serial) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	<-s.stopped
}
