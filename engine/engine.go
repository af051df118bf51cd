// Package engine implements the single-owner data engine: the string store,
// the list store, the time-indexed eviction index, and the command dispatch
// table, all driven by one goroutine reading off a bounded request channel.
// No other goroutine touches engine state directly — that is what makes the
// stores lock-free and pipeline execution atomic.
package engine

import (
	"context"

	rerr "github.com/sabouaram/rdiskv/errors"
	"github.com/sabouaram/rdiskv/logger"
	"github.com/sabouaram/rdiskv/resp"
)

// DefaultCapacity is the minimum channel capacity called for: large enough
// that ordinary bursts of pipelined traffic never block a session on send.
const DefaultCapacity = 4096

// Request is one unit of work submitted to the engine: a bundle to execute
// and the one-shot slot its reply bundle is delivered through. Reply must be
// buffered with capacity 1 — the engine never blocks attempting delivery, so
// an abandoned slot (its session gone) is simply discarded, not leaked on.
type Request struct {
	Bundle resp.Bundle
	Reply  chan resp.Bundle
}

// Engine owns every mutable store and the channel sessions submit work on.
type Engine struct {
	reqs    chan Request
	clock   func() int64
	log     logger.Logger
	data    *store
	metrics Recorder
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock overrides the wall clock the engine computes "now" from. Tests
// use this to drive eviction deterministically; production leaves it at the
// default (wall-clock milliseconds since epoch).
func WithClock(clock func() int64) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger overrides the engine's logger. Defaults to a no-op logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics wires a metrics recorder into the engine: eviction sweeps are
// reported by the store, and processed commands by the loop.
func WithMetrics(m Recorder) Option {
	return func(e *Engine) {
		e.metrics = m
		e.data.sweeps = m
	}
}

// Recorder is the subset of metrics.Collector the engine reports against.
type Recorder interface {
	sweepRecorder
	CommandProcessed(name string)
}

// New builds an Engine with the given request channel capacity, which must
// be at least DefaultCapacity to preserve the admission-control guarantee.
func New(capacity int, opts ...Option) *Engine {
	if capacity < DefaultCapacity {
		capacity = DefaultCapacity
	}
	e := &Engine{
		reqs:  make(chan Request, capacity),
		clock: defaultClock,
		log:   logger.Nop(),
		data:  newStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Requests returns the send-only side of the engine's channel. Sessions hold
// this handle and send on it; it is safe for many concurrent senders.
func (e *Engine) Requests() chan<- Request {
	return e.reqs
}

// Close closes the request channel. Only the component coordinating
// shutdown (once every session has stopped sending) may call this — closing
// while a session still holds the send side risks a send-on-closed-channel
// panic in that session.
func (e *Engine) Close() {
	close(e.reqs)
}

// Run is the engine's single-owner loop. It returns nil when the request
// channel is closed and drained (the documented shutdown signal), or the
// context's error if ctx is canceled first.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case req, ok := <-e.reqs:
			if !ok {
				e.log.Info(rerr.New(rerr.CodeChannelClosed, "engine request channel closed, exiting").Error())
				return nil
			}
			e.handle(req)
		case <-ctx.Done():
			e.log.Warn("engine stopping: context canceled")
			return ctx.Err()
		}
	}
}

func (e *Engine) handle(req Request) {
	now := e.clock()
	reply := executeBundle(e.data, req.Bundle, now)

	if e.metrics != nil {
		for _, f := range resp.Frames(req.Bundle) {
			if name := commandName(f); name != "" {
				e.metrics.CommandProcessed(name)
			}
		}
	}

	select {
	case req.Reply <- reply:
	default:
		e.log.Warn("reply slot unavailable, discarding completed bundle")
	}
}
