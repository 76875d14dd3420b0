package server

import (
	"errors"
	"log"
	"net"
	"sync"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/protocol"
)

// player is one connected client. A reader goroutine feeds in until the
// connection fails, then closes in; err is valid once in is closed.
// Malformed frames are answered by the reader and never reach in.
type player struct {
	conn   *protocol.Conn
	addr   string
	color  board.Color
	logger *log.Logger

	in   chan protocol.Message
	err  error
	quit chan struct{}
	once sync.Once
}

func newPlayer(c net.Conn, logger *log.Logger) *player {
	p := &player{
		conn:   protocol.NewConn(c),
		addr:   c.RemoteAddr().String(),
		logger: logger,
		in:     make(chan protocol.Message, 8),
		quit:   make(chan struct{}),
	}
	go p.read()
	return p
}

func (p *player) read() {
	defer close(p.in)
	for {
		m, err := p.conn.Receive()
		if errors.Is(err, protocol.ErrMalformed) {
			p.logger.Printf("server: %s: %v", p.addr, err)
			p.send(protocol.Error(err.Error()))
			continue
		}
		if err != nil {
			p.err = err
			return
		}
		select {
		case p.in <- m:
		case <-p.quit:
			return
		}
	}
}

// alive drains whatever arrived while the player was waiting and reports
// whether the connection is still open.
func (p *player) alive() bool {
	for {
		select {
		case _, ok := <-p.in:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

// send delivers m, logging a failure. A broken connection also ends the
// reader, which is how the session learns about it.
func (p *player) send(m protocol.Message) {
	if err := p.conn.Send(m); err != nil {
		p.logger.Printf("server: send %s to %s: %v", m.Type, p.addr, err)
	}
}

// stop closes the connection and releases the reader.
func (p *player) stop() {
	p.once.Do(func() {
		close(p.quit)
		p.conn.Close()
	})
}
