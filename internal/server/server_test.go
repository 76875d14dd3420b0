package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/protocol"
	"github.com/hailam/chessduel/internal/storage"
)

type memRecorder struct {
	mu   sync.Mutex
	recs []storage.GameRecord
	got  chan struct{}
}

func newMemRecorder() *memRecorder {
	return &memRecorder{got: make(chan struct{}, 4)}
}

func (r *memRecorder) RecordGame(rec storage.GameRecord) error {
	r.mu.Lock()
	r.recs = append(r.recs, rec)
	r.mu.Unlock()
	r.got <- struct{}{}
	return nil
}

func (r *memRecorder) wait(t *testing.T) storage.GameRecord {
	t.Helper()
	select {
	case <-r.got:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the match record")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recs[len(r.recs)-1]
}

type testServer struct {
	srv    *Server
	addr   string
	cancel context.CancelFunc
	done   chan error
}

func startServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	opts.Logger = log.New(io.Discard, "", 0)
	srv, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ts := &testServer{srv: srv, addr: ln.Addr().String(), cancel: cancel, done: make(chan error, 1)}
	go func() { ts.done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		<-ts.done
	})
	return ts
}

func dial(t *testing.T, addr string) *protocol.Conn {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	c.SetDeadline(time.Now().Add(10 * time.Second))
	conn := protocol.NewConn(c)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func expect(t *testing.T, c *protocol.Conn, want protocol.Type) protocol.Message {
	t.Helper()
	m, err := c.Receive()
	if err != nil {
		t.Fatalf("waiting for %s: %v", want, err)
	}
	if m.Type != want {
		t.Fatalf("got %s message %+v, want %s", m.Type, m, want)
	}
	return m
}

// pair connects two clients and consumes the pairing handshake.
func pair(t *testing.T, ts *testServer) (white, black *protocol.Conn) {
	t.Helper()
	white = dial(t, ts.addr)
	expect(t, white, protocol.TypeWaitingForOpponent)
	if err := white.Send(protocol.Join()); err != nil {
		t.Fatal(err)
	}

	black = dial(t, ts.addr)
	if c := expect(t, white, protocol.TypeAssignColor).Color; *c != board.White {
		t.Fatalf("first player assigned %s", c)
	}
	if c := expect(t, black, protocol.TypeAssignColor).Color; *c != board.Black {
		t.Fatalf("second player assigned %s", c)
	}
	for _, c := range []*protocol.Conn{white, black} {
		st := expect(t, c, protocol.TypeGameState)
		if st.State.ActiveColor != board.White || st.State.Turn != 1 {
			t.Fatalf("initial state: %s to move on turn %d", st.State.ActiveColor, st.State.Turn)
		}
	}
	return white, black
}

// play sends a move from mover and returns the state both players receive.
func play(t *testing.T, mover, white, black *protocol.Conn, src, dst string) protocol.Message {
	t.Helper()
	if err := mover.Send(protocol.MakeMove(src, dst)); err != nil {
		t.Fatal(err)
	}
	st := expect(t, white, protocol.TypeGameState)
	expect(t, black, protocol.TypeGameState)
	return st
}

func TestMatchToCheckmate(t *testing.T) {
	rec := newMemRecorder()
	ts := startServer(t, Options{Recorder: rec})
	white, black := pair(t, ts)

	if got := ts.srv.Matches(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Matches() = %+v, want one match", got)
	}

	play(t, white, white, black, "f2", "f3")
	play(t, black, white, black, "e7", "e5")
	play(t, white, white, black, "g2", "g4")
	st := play(t, black, white, black, "d8", "h4")

	if !st.State.Checkmate || st.State.Winner == nil || *st.State.Winner != board.Black {
		t.Fatalf("final state: checkmate=%v winner=%v", st.State.Checkmate, st.State.Winner)
	}
	if !strings.Contains(st.Text, "Checkmate, Black wins") {
		t.Errorf("status = %q", st.Text)
	}
	for _, c := range []*protocol.Conn{white, black} {
		end := expect(t, c, protocol.TypeGameEnd)
		if end.Winner == nil || *end.Winner != board.Black {
			t.Errorf("game_end winner = %v, want Black", end.Winner)
		}
	}

	got := rec.wait(t)
	if got.Winner == nil || *got.Winner != board.Black || len(got.Moves) != 4 {
		t.Errorf("recorded %+v", got)
	}
}

func TestRejectedMoves(t *testing.T) {
	ts := startServer(t, Options{})
	white, black := pair(t, ts)

	// Illegal target: error to the mover, then the unchanged state to both.
	if err := white.Send(protocol.MakeMove("e2", "e5")); err != nil {
		t.Fatal(err)
	}
	e := expect(t, white, protocol.TypeError)
	if e.Text != board.ErrIllegalTarget.Error() {
		t.Errorf("error = %q", e.Text)
	}
	st := expect(t, white, protocol.TypeGameState)
	expect(t, black, protocol.TypeGameState)
	if st.State.Turn != 1 || !strings.HasPrefix(st.Text, "Invalid move") {
		t.Errorf("after rejection: turn %d, status %q", st.State.Turn, st.Text)
	}

	// Malformed square.
	if err := white.Send(protocol.MakeMove("z9", "e4")); err != nil {
		t.Fatal(err)
	}
	if e := expect(t, white, protocol.TypeError); !strings.Contains(e.Text, "invalid square") {
		t.Errorf("parse error = %q", e.Text)
	}
	expect(t, white, protocol.TypeGameState)
	expect(t, black, protocol.TypeGameState)

	// Out of turn: only the sender hears about it.
	if err := black.Send(protocol.MakeMove("e7", "e5")); err != nil {
		t.Fatal(err)
	}
	if e := expect(t, black, protocol.TypeError); e.Text != "it is not your turn" {
		t.Errorf("out of turn error = %q", e.Text)
	}

	// Wrong message type from the active player.
	if err := white.Send(protocol.Error("hello")); err != nil {
		t.Fatal(err)
	}
	expect(t, white, protocol.TypeError)

	st = play(t, white, white, black, "e2", "e4")
	if st.State.ActiveColor != board.Black || st.State.EnPassant != "e4" {
		t.Errorf("after e2e4: %s to move, en passant %q", st.State.ActiveColor, st.State.EnPassant)
	}
	if st.Text != "White played e2e4. Black to move" {
		t.Errorf("status = %q", st.Text)
	}
}

func TestBadFramesKeepMatchAlive(t *testing.T) {
	rec := newMemRecorder()
	ts := startServer(t, Options{Recorder: rec})
	white, black := pair(t, ts)

	// Blank source: a parse error and the unchanged state, not an abandoned game.
	if err := white.Send(protocol.MakeMove("", "e4")); err != nil {
		t.Fatal(err)
	}
	if e := expect(t, white, protocol.TypeError); !strings.Contains(e.Text, "invalid square") {
		t.Errorf("blank source error = %q", e.Text)
	}
	for _, c := range []*protocol.Conn{white, black} {
		st := expect(t, c, protocol.TypeGameState)
		if st.State.Turn != 1 || st.State.ActiveColor != board.White || !strings.HasPrefix(st.Text, "Invalid move") {
			t.Errorf("after blank source: %s to move on turn %d, status %q", st.State.ActiveColor, st.State.Turn, st.Text)
		}
	}

	// Unknown type from either side is answered and otherwise ignored.
	if err := black.Send(protocol.Message{Type: "resign"}); err != nil {
		t.Fatal(err)
	}
	if e := expect(t, black, protocol.TypeError); !strings.Contains(e.Text, "unknown message type") {
		t.Errorf("unknown type error = %q", e.Text)
	}

	st := play(t, white, white, black, "e2", "e4")
	if st.State.ActiveColor != board.Black || st.State.Turn != 2 {
		t.Errorf("after e2e4: %s to move on turn %d", st.State.ActiveColor, st.State.Turn)
	}
	select {
	case <-rec.got:
		t.Fatal("match recorded after a bad frame")
	default:
	}
}

func TestDisconnectEndsMatch(t *testing.T) {
	rec := newMemRecorder()
	ts := startServer(t, Options{Recorder: rec})
	white, black := pair(t, ts)

	play(t, white, white, black, "e2", "e4")
	black.Close()

	end := expect(t, white, protocol.TypeGameEnd)
	if end.Winner != nil {
		t.Errorf("abandoned match reported winner %s", *end.Winner)
	}
	got := rec.wait(t)
	if got.Winner != nil || got.Checkmate || len(got.Moves) != 1 {
		t.Errorf("recorded %+v", got)
	}
}

func TestShutdownEndsMatches(t *testing.T) {
	ts := startServer(t, Options{})
	white, black := pair(t, ts)

	ts.cancel()
	for _, c := range []*protocol.Conn{white, black} {
		if end := expect(t, c, protocol.TypeGameEnd); end.Winner != nil {
			t.Errorf("shutdown reported winner %s", *end.Winner)
		}
	}
	select {
	case err := <-ts.done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
		ts.done <- err
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestCustomStartPosition(t *testing.T) {
	ts := startServer(t, Options{StartFEN: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"})
	white, black := pair(t, ts)

	st := play(t, white, white, black, "a1", "a8")
	if !st.State.Checkmate {
		t.Fatal("expected back rank mate")
	}
	if end := expect(t, black, protocol.TypeGameEnd); end.Winner == nil || *end.Winner != board.White {
		t.Errorf("winner = %v, want White", end.Winner)
	}
}

func TestNewRejectsBadFEN(t *testing.T) {
	if _, err := New(Options{StartFEN: "not a fen"}); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("New error = %v, want ErrInvalidFEN", err)
	}
}

func TestStatusLine(t *testing.T) {
	m, err := board.NewMatchFromFEN("4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := statusLine(m, ""); got != "White to move, check" {
		t.Errorf("statusLine = %q", got)
	}
}

func TestFailedSendIsLogged(t *testing.T) {
	var buf bytes.Buffer
	clientEnd, serverEnd := net.Pipe()
	p := newPlayer(serverEnd, log.New(&buf, "", 0))
	defer p.stop()
	clientEnd.Close()

	p.send(protocol.GameEnd(nil))
	if got := buf.String(); !strings.Contains(got, "send game_end to pipe") {
		t.Errorf("log = %q, want the failed game_end send", got)
	}
}
