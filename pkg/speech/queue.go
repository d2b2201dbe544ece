package speech

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-shopwatch/internal/log"
)

// Speaker is an ordered, non-blocking mailbox of pending utterances.
//
// Say appends and returns immediately. A single background worker drains the
// queue in FIFO order and invokes the engine synchronously, one utterance at
// a time. Engine failures are logged and the worker moves on to the next
// item. The pending list is the only state shared across the goroutine
// boundary; a mutex plus condition variable guards it, so the worker blocks
// when idle instead of polling.
//
// Close is idempotent. It interrupts the current utterance via Engine.Stop,
// abandons anything still pending and closes the engine: once Close returns,
// the engine is never invoked again.
type Speaker struct {
	engine Engine
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []string
	closed  bool

	done chan struct{}
}

// NewSpeaker starts a speaker draining into the given engine.
func NewSpeaker(engine Engine) *Speaker {
	s := &Speaker{
		engine: engine,
		logger: log.With("component", "speaker"),
		done:   make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.worker()
	return s
}

// Say queues text for playback and returns immediately.
// Returns ErrQueueClosed after Close; the text is dropped.
func (s *Speaker) Say(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrQueueClosed
	}
	s.pending = append(s.pending, text)
	s.cond.Signal()
	return nil
}

// Pending returns the number of queued utterances not yet handed to the
// engine.
func (s *Speaker) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close stops the worker, interrupts any in-progress utterance, abandons
// the rest of the queue and closes the engine. Idempotent. Blocks until the
// worker has exited.
func (s *Speaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	abandoned := len(s.pending)
	s.cond.Broadcast()
	s.mu.Unlock()

	// Interrupt the utterance the worker may be in the middle of.
	s.engine.Stop()
	<-s.done

	if abandoned > 0 {
		s.logger.Debug("abandoned pending utterances", "count", abandoned)
	}
	return s.engine.Close()
}

// worker drains the queue until Close. The closed check happens before every
// pop, so no utterance is handed to the engine after Close.
func (s *Speaker) worker() {
	defer close(s.done)

	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		text := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		if err := s.engine.Speak(text); err != nil {
			s.logger.Error("speech engine error", "error", err, "text", text)
		}
	}
}
