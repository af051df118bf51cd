// Package session drives one TCP connection through the read, decode,
// dispatch, and write state machine: bytes in, request bundles out to the
// engine, reply bundles back out as bytes, with opportunistic pipelining and
// a single flush per batch.
package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"

	"github.com/sabouaram/rdiskv/engine"
	rerr "github.com/sabouaram/rdiskv/errors"
	"github.com/sabouaram/rdiskv/logger"
	"github.com/sabouaram/rdiskv/resp"
)

const initialBufferSize = 4096

// ByteRecorder is the subset of metrics.Collector the session reports
// socket traffic against.
type ByteRecorder interface {
	BytesRead(n int)
	BytesWritten(n int)
}

// Option configures a Session at construction.
type Option func(*Session)

// WithMetrics wires byte-traffic counters into the session.
func WithMetrics(m ByteRecorder) Option {
	return func(s *Session) { s.metrics = m }
}

// Session owns one connection for its entire lifetime.
type Session struct {
	id      uint64
	conn    net.Conn
	out     chan<- engine.Request
	log     logger.Logger
	w       *bufio.Writer
	buf     []byte
	start   int
	end     int
	metrics ByteRecorder
}

// New wraps conn for client id and submits decoded bundles on reqs.
func New(id uint64, conn net.Conn, reqs chan<- engine.Request, log logger.Logger, opts ...Option) *Session {
	s := &Session{
		id:   id,
		conn: conn,
		out:  reqs,
		log:  log.WithFields(logger.Fields{"client_id": id}),
		buf:  make([]byte, initialBufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.w = bufio.NewWriter(countingWriter{conn, s})
	return s
}

// countingWriter reports every physical write to the session's metrics
// recorder; it sits between the buffered writer and the socket so a single
// flush produces a single recorded write, matching the flush-once-per-batch
// rule.
type countingWriter struct {
	net.Conn
	s *Session
}

func (c countingWriter) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	if c.s.metrics != nil && n > 0 {
		c.s.metrics.BytesWritten(n)
	}
	return n, err
}

// ID returns the session's stable client identifier.
func (s *Session) ID() uint64 { return s.id }

// Serve runs the session loop until the connection closes, a decode or I/O
// error occurs, or ctx is canceled. It always closes the underlying
// connection before returning.
func (s *Session) Serve(ctx context.Context) error {
	defer s.conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-stop:
		}
	}()

	err := s.loop()
	if err != nil && ctx.Err() != nil {
		// The connection was closed to honor cancellation, not because of a
		// genuine protocol or I/O failure.
		return ctx.Err()
	}
	return err
}

func (s *Session) loop() error {
	var pipeline []resp.Frame

	for {
		for {
			frame, rest, err := resp.Decode(s.buf[s.start:s.end])
			if err == nil {
				pipeline = append(pipeline, frame)
				s.start = s.end - len(rest)
				continue
			}
			if errors.Is(err, resp.ErrIncomplete) {
				break
			}
			protoErr := rerr.Wrap(rerr.CodeProtocol, "protocol error", err)
			s.log.Error("dropping connection", protoErr)
			return protoErr
		}

		if len(pipeline) > 0 {
			if err := s.dispatch(pipeline); err != nil {
				return err
			}
			pipeline = pipeline[:0]
			continue
		}

		if err := s.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil // peer closed cleanly with no in-progress frame
			}
			return err
		}
	}
}

// fill compacts unconsumed bytes to the front of the buffer, grows the
// buffer if it is already full, and reads more bytes from the connection.
func (s *Session) fill() error {
	if s.start > 0 {
		copy(s.buf, s.buf[s.start:s.end])
		s.end -= s.start
		s.start = 0
	}
	if s.end == len(s.buf) {
		grown := make([]byte, len(s.buf)*2)
		copy(grown, s.buf[:s.end])
		s.buf = grown
	}

	n, err := s.conn.Read(s.buf[s.end:])
	s.end += n
	if n > 0 && s.metrics != nil {
		s.metrics.BytesRead(n)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			if s.end > 0 {
				return rerr.Wrap(rerr.CodeIO, "connection closed mid-frame", io.ErrUnexpectedEOF)
			}
			return err // peer closed cleanly with no in-progress frame
		}
		return rerr.Wrap(rerr.CodeIO, "read failed", err)
	}
	return nil
}

func (s *Session) dispatch(frames []resp.Frame) error {
	bundle := resp.NewBundle(append([]resp.Frame(nil), frames...))
	reply := make(chan resp.Bundle, 1)
	req := engine.Request{Bundle: bundle, Reply: reply}

	s.out <- req
	result := <-reply

	for _, f := range resp.Frames(result) {
		if err := resp.Encode(s.w, f); err != nil {
			return rerr.Wrap(rerr.CodeIO, "encode failed", err)
		}
	}
	if err := s.w.Flush(); err != nil {
		return rerr.Wrap(rerr.CodeIO, "flush failed", err)
	}
	return nil
}
