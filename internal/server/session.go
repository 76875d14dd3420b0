package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/protocol"
	"github.com/hailam/chessduel/internal/storage"
)

type session struct {
	id       uint64
	white    *player
	black    *player
	startFEN string
	started  time.Time
	logger   *log.Logger

	// mu guards match; Matches reads it from other goroutines.
	mu    sync.Mutex
	match *board.Match
}

func newSession(id uint64, m *board.Match, startFEN string, white, black *player, logger *log.Logger) *session {
	white.color, black.color = board.White, board.Black
	return &session{
		id:       id,
		white:    white,
		black:    black,
		startFEN: startFEN,
		started:  time.Now(),
		logger:   logger,
		match:    m,
	}
}

// run plays the match to its end and returns its record. A broken engine
// invariant ends this match only.
func (s *session) run(ctx context.Context) (rec storage.GameRecord) {
	defer s.black.stop()
	defer s.white.stop()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, board.ErrInvariant) {
			panic(r)
		}
		s.logger.Printf("match %d: aborted: %v", s.id, err)
		s.broadcast(protocol.GameEnd(nil))
		rec = s.record()
	}()

	for _, p := range []*player{s.white, s.black} {
		if err := p.conn.Send(protocol.AssignColor(p.color)); err != nil {
			s.logger.Printf("match %d: %s: %v", s.id, p.addr, err)
			s.broadcast(protocol.GameEnd(nil))
			return s.record()
		}
	}

	status := s.status("")
	for {
		snap, over, winner := s.state()
		s.broadcast(protocol.GameState(snap, status))
		if over {
			s.logger.Printf("match %d: checkmate, %s wins", s.id, winner)
			s.broadcast(protocol.GameEnd(&winner))
			return s.record()
		}

		var done bool
		status, done = s.await(ctx)
		if done {
			return s.record()
		}
	}
}

// await reads messages until the active player submits a move or the match
// cannot continue. It returns the status line for the next broadcast.
func (s *session) await(ctx context.Context) (status string, done bool) {
	for {
		var (
			from *player
			msg  protocol.Message
			ok   bool
		)
		select {
		case <-ctx.Done():
			s.logger.Printf("match %d: server shutting down", s.id)
			s.broadcast(protocol.GameEnd(nil))
			return "", true
		case msg, ok = <-s.white.in:
			from = s.white
		case msg, ok = <-s.black.in:
			from = s.black
		}

		if !ok {
			s.logger.Printf("match %d: %s (%s) disconnected: %v", s.id, from.addr, from.color, from.err)
			s.opponent(from).send(protocol.GameEnd(nil))
			return "", true
		}

		switch {
		case msg.Type == protocol.TypeJoin:
			continue
		case from.color != s.activeColor():
			from.send(protocol.Error("it is not your turn"))
			continue
		case msg.Type != protocol.TypeMakeMove:
			from.send(protocol.Error(fmt.Sprintf("unexpected %s message", msg.Type)))
			continue
		}

		if err := s.move(msg.Source, msg.Target); err != nil {
			s.logger.Printf("match %d: rejected %s%s: %v", s.id, msg.Source, msg.Target, err)
			from.send(protocol.Error(reason(err)))
			return s.status("Invalid move: " + reason(err)), false
		}
		return s.status(fmt.Sprintf("%s played %s%s", from.color, msg.Source, msg.Target)), false
	}
}

func (s *session) move(source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.match.PerformMove(source, target)
	return err
}

func (s *session) activeColor() board.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.ActiveColor()
}

func (s *session) state() (snap board.Snapshot, checkmate bool, winner board.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	winner, checkmate = s.match.Winner()
	return s.match.Snapshot(), checkmate, winner
}

// status renders the line shown under the board, prefixed by last when set.
func (s *session) status(last string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return statusLine(s.match, last)
}

func statusLine(m *board.Match, last string) string {
	var b strings.Builder
	if last != "" {
		b.WriteString(last)
		b.WriteString(". ")
	}
	if w, ok := m.Winner(); ok {
		fmt.Fprintf(&b, "Checkmate, %s wins", w)
		return b.String()
	}
	fmt.Fprintf(&b, "%s to move", m.ActiveColor())
	if m.Check() {
		b.WriteString(", check")
	}
	return b.String()
}

// reason strips the move prefix from rule errors; parse errors pass through.
func reason(err error) string {
	var me *board.MoveError
	if errors.As(err, &me) {
		return me.Err.Error()
	}
	return err.Error()
}

func (s *session) opponent(p *player) *player {
	if p == s.white {
		return s.black
	}
	return s.white
}

// broadcast sends m to both players.
func (s *session) broadcast(m protocol.Message) {
	for _, p := range []*player{s.white, s.black} {
		p.send(m)
	}
}

func (s *session) record() storage.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.RecordOf(s.match, s.white.addr, s.black.addr, s.startFEN, s.started)
}

func (s *session) info() MatchInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MatchInfo{
		ID:    s.id,
		White: s.white.addr,
		Black: s.black.addr,
		Turn:  s.match.Turn(),
		Moves: len(s.match.History()),
	}
}
