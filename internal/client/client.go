// Package client plays one side of a networked match from a terminal.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/protocol"
	"github.com/hailam/chessduel/internal/render"
)

// ErrInputClosed is returned when the player's input ends mid-game.
var ErrInputClosed = errors.New("input closed")

// Result is how a match ended for this client.
type Result struct {
	// Winner is nil when the match ended without checkmate.
	Winner *board.Color
	// Color is the color this client played, if one was assigned.
	Color *board.Color
}

// Client exchanges messages with the server and prompts the player on its turn.
type Client struct {
	conn *protocol.Conn
	in   *bufio.Scanner
	out  io.Writer

	color *board.Color
}

// New wraps an established connection. Moves are read from in, output goes to out.
func New(conn io.ReadWriteCloser, in io.Reader, out io.Writer) *Client {
	return &Client{
		conn: protocol.NewConn(conn),
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Dial connects to a server at addr.
func Dial(ctx context.Context, addr string, in io.Reader, out io.Writer) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn, in, out), nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run announces the client and plays until the match ends.
func (c *Client) Run() (Result, error) {
	if err := c.conn.Send(protocol.Join()); err != nil {
		return Result{}, err
	}
	fmt.Fprintln(c.out, "Connected. Waiting for match...")

	for {
		msg, err := c.conn.Receive()
		if err != nil {
			return c.result(nil), fmt.Errorf("connection lost: %w", err)
		}

		switch msg.Type {
		case protocol.TypeAssignColor:
			c.color = msg.Color
			fmt.Fprintf(c.out, "Assigned color: %s\n", *c.color)

		case protocol.TypeWaitingForOpponent:
			fmt.Fprintln(c.out, "Waiting for opponent to join...")

		case protocol.TypeGameState:
			done, err := c.onState(*msg.State, msg.Text)
			if done || err != nil {
				return c.result(msg.State.Winner), err
			}

		case protocol.TypeGameEnd:
			if msg.Winner != nil {
				fmt.Fprintf(c.out, "Game finished. Winner: %s\n", *msg.Winner)
			} else {
				fmt.Fprintln(c.out, "Game finished without a winner.")
			}
			return c.result(msg.Winner), nil

		case protocol.TypeError:
			fmt.Fprintf(c.out, "Server error: %s\n", msg.Text)
		}
	}
}

func (c *Client) result(winner *board.Color) Result {
	return Result{Winner: winner, Color: c.color}
}

// onState shows the board and, when it is this client's turn, sends a move.
func (c *Client) onState(s board.Snapshot, text string) (done bool, err error) {
	perspective := board.White
	if c.color != nil {
		perspective = *c.color
	}
	fmt.Fprint(c.out, "\n"+render.Text(s, render.Options{Perspective: perspective, Captured: true}))
	if text != "" {
		fmt.Fprintf(c.out, "Message: %s\n", text)
	}
	fmt.Fprintln(c.out, render.Status(s))

	if s.Checkmate {
		return true, nil
	}
	if c.color == nil || s.ActiveColor != *c.color {
		fmt.Fprintln(c.out, "Waiting for opponent...")
		return false, nil
	}

	source, target, err := c.readMove()
	if err != nil {
		return false, err
	}
	return false, c.conn.Send(protocol.MakeMove(source, target))
}

// readMove prompts for a source and target. A four-character answer to the
// first prompt is taken as both.
func (c *Client) readMove() (source, target string, err error) {
	fmt.Fprintf(c.out, "YOUR TURN (%s)!\n", *c.color)
	source, err = c.prompt("Source (e.g., e2): ")
	if err != nil {
		return "", "", err
	}
	if len(source) == 4 {
		return source[:2], source[2:], nil
	}
	target, err = c.prompt("Target (e.g., e4): ")
	if err != nil {
		return "", "", err
	}
	return source, target, nil
}

// prompt asks for a line until a non-blank one arrives.
func (c *Client) prompt(label string) (string, error) {
	for {
		fmt.Fprint(c.out, label)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", err
			}
			return "", ErrInputClosed
		}
		if line := strings.TrimSpace(c.in.Text()); line != "" {
			return line, nil
		}
	}
}
