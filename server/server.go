// Package server supervises the listener and the engine together: it
// accepts connections, spawns sessions, and coordinates the shutdown
// sequence so the engine only stops once every session has drained.
package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/rdiskv/engine"
	"github.com/sabouaram/rdiskv/logger"
	"github.com/sabouaram/rdiskv/metrics"
	"github.com/sabouaram/rdiskv/session"
)

// Backlog is the minimum listen backlog called for.
const Backlog = 1024

// Server owns the TCP listener and the handle list of sessions it spawned.
type Server struct {
	addr    string
	log     logger.Logger
	eng     *engine.Engine
	metrics *metrics.Collector

	nextClientID atomic.Uint64

	mu      sync.Mutex
	handles map[uint64]*session.Session
}

// New builds a Server that accepts on addr and hands work to eng.
func New(addr string, eng *engine.Engine, log logger.Logger, m *metrics.Collector) *Server {
	if m == nil {
		m = metrics.NewCollector()
	}
	return &Server{
		addr:    addr,
		log:     log,
		eng:     eng,
		metrics: m,
		handles: make(map[uint64]*session.Session, Backlog),
	}
}

// Run listens on s.addr and serves connections until ctx is canceled. The
// engine is started here too (on an uncancelable context) so it only stops
// once Run has drained every in-flight session, per the shutdown sequence:
// listener close -> accept loop exit -> sessions drain -> channel close ->
// engine exit.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{Control: setReuseAddr}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	s.log.WithFields(logger.Fields{"addr": s.addr}).Info("listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.eng.Run(context.Background()) })
	g.Go(func() error { return s.acceptLoop(gctx, ln) })
	return g.Wait()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	closeOnCancel := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-closeOnCancel:
		}
	}()
	defer close(closeOnCancel)

	var (
		wg        sync.WaitGroup
		acceptErr error
	)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil {
				// A genuine accept failure: stop every session so the
				// engine channel can still be closed and Run can return.
				acceptErr = err
				cancel()
			}
			break
		}
		s.metrics.ConnectionOpened()
		wg.Add(1)
		go s.serve(ctx, conn, &wg)
	}

	wg.Wait()
	s.eng.Close()
	return acceptErr
}

func (s *Server) serve(ctx context.Context, conn net.Conn, wg *sync.WaitGroup) {
	defer wg.Done()

	id := s.nextClientID.Add(1)
	s.metrics.ClientEpoch(id)
	sess := session.New(id, conn, s.eng.Requests(), s.log, session.WithMetrics(s.metrics))
	s.track(id, sess)
	defer s.untrack(id)
	defer s.metrics.ConnectionClosed()

	if err := sess.Serve(ctx); err != nil {
		s.log.WithFields(logger.Fields{"client_id": id}).Warn("session ended: " + err.Error())
	}
}

func (s *Server) track(id uint64, sess *session.Session) {
	s.mu.Lock()
	s.handles[id] = sess
	s.mu.Unlock()
}

func (s *Server) untrack(id uint64) {
	s.mu.Lock()
	delete(s.handles, id)
	s.mu.Unlock()
}

// ActiveSessions reports how many sessions are currently being served.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}
