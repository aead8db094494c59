package stream

import (
	"context"
	"io"
	"iter"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the queue bound used when New is given a non-positive capacity.
const DefaultCapacity = 16

// State is the lifecycle state of a ResponseStream as seen by its consumer.
type State int32

const (
	// StateOpen: the producer may still send.
	StateOpen State = iota
	// StateDraining: the producer has closed its end; buffered items remain readable.
	StateDraining
	// StateClosed: no further items will be returned.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Result is a single queue slot: either an event or a failure.
type Result struct {
	Event ResponseEvent
	Err   error
}

// ResponseStream is the consumer end of a bounded single-producer, single-consumer
// event queue. Items are returned in the order they were sent, each exactly once.
//
// A failure item or a Completed event is terminal: after the consumer receives it the
// stream is closed, the producer is released and Next returns io.EOF.
type ResponseStream struct {
	rx             <-chan Result
	done           chan struct{}
	release        sync.Once
	closed         atomic.Bool
	producerClosed *atomic.Bool
}

// Sender is the producer end of the queue. It must be used from a single goroutine.
type Sender struct {
	tx       chan<- Result
	done     <-chan struct{}
	closed   *atomic.Bool
	finished bool
}

// New creates a connected stream and sender with the given queue bound.
func New(capacity int) (*ResponseStream, *Sender) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ch := make(chan Result, capacity)
	done := make(chan struct{})
	producerClosed := new(atomic.Bool)

	rs := &ResponseStream{rx: ch, done: done, producerClosed: producerClosed}
	tx := &Sender{tx: ch, done: done, closed: producerClosed}
	return rs, tx
}

// Next blocks until the next item is available and returns it. It returns io.EOF
// once the producer has closed and every buffered item was consumed, and ctx.Err()
// if ctx ends first; in the latter case the stream remains usable.
func (s *ResponseStream) Next(ctx context.Context) (ResponseEvent, error) {
	if s.closed.Load() {
		return ResponseEvent{}, io.EOF
	}
	select {
	case r, ok := <-s.rx:
		if !ok {
			s.Close()
			return ResponseEvent{}, io.EOF
		}
		if r.Err != nil {
			s.Close()
			return ResponseEvent{}, r.Err
		}
		if r.Event.Terminal() {
			s.Close()
		}
		return r.Event, nil
	case <-ctx.Done():
		return ResponseEvent{}, ctx.Err()
	}
}

// All returns an iterator over the remaining items. Iteration ends at end of stream
// or right after yielding a failure.
func (s *ResponseStream) All(ctx context.Context) iter.Seq2[ResponseEvent, error] {
	return func(yield func(ResponseEvent, error) bool) {
		for {
			ev, err := s.Next(ctx)
			if err == io.EOF {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the consumer end. It never blocks and is safe to call more than
// once. A producer blocked in Send, or sending later, gets ErrConsumerGone.
func (s *ResponseStream) Close() {
	s.release.Do(func() {
		s.closed.Store(true)
		close(s.done)
	})
}

// State reports the current lifecycle state.
func (s *ResponseStream) State() State {
	if s.closed.Load() {
		return StateClosed
	}
	if s.producerClosed.Load() {
		return StateDraining
	}
	return StateOpen
}

// Send enqueues an event, blocking while the queue is full.
func (s *Sender) Send(ctx context.Context, ev ResponseEvent) error {
	return s.push(ctx, Result{Event: ev})
}

// Fail enqueues a failure item. err must be non-nil.
func (s *Sender) Fail(ctx context.Context, err error) error {
	if err == nil {
		err = ErrStreamIncomplete
	}
	return s.push(ctx, Result{Err: err})
}

func (s *Sender) push(ctx context.Context, r Result) error {
	if s.finished {
		return ErrStreamClosed
	}
	select {
	case <-s.done:
		return ErrConsumerGone
	default:
	}

	select {
	case s.tx <- r:
		if r.Err != nil || r.Event.Terminal() {
			s.finished = true
		}
		return nil
	case <-s.done:
		return ErrConsumerGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the producer end closed. Items already queued stay readable.
// Safe to call more than once.
func (s *Sender) Close() {
	if s.closed.Load() {
		return
	}
	s.finished = true
	s.closed.Store(true)
	close(s.tx)
}
