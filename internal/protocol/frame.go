package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MaxFrameSize bounds a frame body. Larger frames are rejected before allocation.
const MaxFrameSize = 1 << 20

var (
	// ErrFrameTooLarge is returned for frames whose declared length exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrMalformed wraps decode and validation failures of a fully read frame.
	// The stream stays aligned on the next frame.
	ErrMalformed = errors.New("malformed message")
)

// WriteFrame writes m as a 4-byte big-endian length followed by its JSON encoding.
func WriteFrame(w io.Writer, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Type, err)
	}
	if len(body) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}

	buf := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	_, err = w.Write(buf)
	return err
}

// ReadFrame reads one frame and decodes and validates its message.
// A clean EOF before the length prefix is returned as io.EOF. Errors wrapping
// ErrMalformed leave the reader positioned after the bad frame.
func ReadFrame(r io.Reader) (Message, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Message{}, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Message{}, err
	}

	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, fmt.Errorf("%w: decode: %w", ErrMalformed, err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return m, nil
}

// Conn exchanges frames over a stream. Send is safe for concurrent use;
// Receive must be called from one goroutine at a time.
type Conn struct {
	rw io.ReadWriteCloser
	mu sync.Mutex
}

func NewConn(rw io.ReadWriteCloser) *Conn {
	return &Conn{rw: rw}
}

func (c *Conn) Send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteFrame(c.rw, m)
}

func (c *Conn) Receive() (Message, error) {
	return ReadFrame(c.rw)
}

func (c *Conn) Close() error {
	return c.rw.Close()
}
