// Package server runs two-player chess matches over TCP.
//
// Connections are paired in arrival order: the first waits, the second joins
// it as Black. Each pair gets its own match and session goroutine.
package server

import (
	"cmp"
	"context"
	"errors"
	"log"
	"net"
	"slices"
	"sync"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/protocol"
	"github.com/hailam/chessduel/internal/storage"
)

// Recorder persists finished matches.
type Recorder interface {
	RecordGame(rec storage.GameRecord) error
}

// Options configures a Server.
type Options struct {
	// StartFEN is the position every match starts from. Empty means the standard setup.
	StartFEN string
	// Recorder receives each finished or abandoned match. Optional.
	Recorder Recorder
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server pairs connections and hosts their matches.
type Server struct {
	opts   Options
	logger *log.Logger

	mu       sync.Mutex
	waiting  *player
	sessions map[uint64]*session
	nextID   uint64

	wg sync.WaitGroup
}

// New creates a server. It fails only when opts.StartFEN does not parse.
func New(opts Options) (*Server, error) {
	if opts.StartFEN == "" {
		opts.StartFEN = board.StartFEN
	}
	if _, err := board.NewMatchFromFEN(opts.StartFEN); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		opts:     opts,
		logger:   logger,
		sessions: make(map[uint64]*session),
	}, nil
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Printf("server: listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then ends every
// running match and returns nil once their sessions have exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.shutdown()
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				s.shutdown()
				return err
			}
			s.logger.Printf("server: accept: %v", err)
			continue
		}
		s.logger.Printf("server: accepted connection from %s", conn.RemoteAddr())
		s.admit(ctx, newPlayer(conn, s.logger))
	}
}

// admit pairs p with the waiting player, or parks it.
func (s *Server) admit(ctx context.Context, p *player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w := s.waiting; w != nil {
		s.waiting = nil
		if w.alive() {
			s.start(ctx, w, p)
			return
		}
		s.logger.Printf("server: waiting player %s left before pairing", w.addr)
		w.stop()
	}

	s.waiting = p
	if err := p.conn.Send(protocol.WaitingForOpponent()); err != nil {
		s.logger.Printf("server: %s: %v", p.addr, err)
		s.waiting = nil
		p.stop()
	}
}

// start launches a session for white and black. s.mu must be held.
func (s *Server) start(ctx context.Context, white, black *player) {
	m, err := board.NewMatchFromFEN(s.opts.StartFEN)
	if err != nil {
		// Validated in New.
		panic(err)
	}
	s.nextID++
	sess := newSession(s.nextID, m, s.opts.StartFEN, white, black, s.logger)
	s.sessions[sess.id] = sess
	s.logger.Printf("server: match %d: %s (White) vs %s (Black)", sess.id, white.addr, black.addr)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		rec := sess.run(ctx)
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		s.record(sess.id, rec)
	}()
}

func (s *Server) record(id uint64, rec storage.GameRecord) {
	if s.opts.Recorder == nil {
		return
	}
	if err := s.opts.Recorder.RecordGame(rec); err != nil {
		s.logger.Printf("server: match %d: record: %v", id, err)
	}
}

func (s *Server) shutdown() {
	s.mu.Lock()
	if s.waiting != nil {
		s.waiting.stop()
		s.waiting = nil
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if n > 0 {
		s.logger.Printf("server: ending %d match(es)", n)
	}
	s.wg.Wait()
}

// MatchInfo describes a running match.
type MatchInfo struct {
	ID    uint64
	White string
	Black string
	Turn  int
	Moves int
}

// Matches lists the running matches ordered by ID.
func (s *Server) Matches() []MatchInfo {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	out := make([]MatchInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.info())
	}
	slices.SortFunc(out, func(a, b MatchInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
