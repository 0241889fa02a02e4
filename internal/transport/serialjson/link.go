// Package serialjson frames the panel↔hub link: one JSON object per
// newline-terminated line. Fields absent from a frame are preserved by
// the receiver, so either side may send partial updates.
package serialjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"hvac_control/internal/models"
)

// Message is one frame. Room conditions only ever travel panel→hub;
// the hvac object is bidirectional.
type Message struct {
	RoomTemp     *float64              `json:"roomTemp,omitempty"`
	RoomHumidity *float64              `json:"roomHumidity,omitempty"`
	HVAC         *models.SettingsPatch `json:"hvac,omitempty"`
}

// readTimeout keeps Poll from blocking the node's control loop; no
// bytes within the window is the common case, not an error.
const readTimeout = 5 * time.Millisecond

// Link frames messages over any byte stream. Not safe for concurrent
// use; each node drives its link from a single control loop.
type Link struct {
	rw      io.ReadWriter
	closer  io.Closer
	pending bytes.Buffer
	read    []byte
}

// NewLink wraps an existing stream. Used directly in tests and by
// loopback tooling.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{rw: rw, read: make([]byte, 256)}
}

// Open opens the serial device at the given baud rate, 8N1, with a
// short read timeout so polls never stall.
func Open(device string, baud int) (*Link, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	l := NewLink(port)
	l.closer = port
	return l, nil
}

// Send writes one frame followed by a newline.
func (l *Link) Send(m Message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	b = append(b, '\n')
	if _, err := l.rw.Write(b); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Poll reads whatever bytes are available and returns the next complete
// frame, or (nil, nil) when no full line has arrived yet. A line that
// fails to decode is dropped entirely and reported; nothing from it is
// applied.
func (l *Link) Poll() (*Message, error) {
	n, err := l.rw.Read(l.read)
	if n > 0 {
		l.pending.Write(l.read[:n])
	}
	// Read errors (EOF on drained test buffers, timeouts surfaced by
	// some drivers) are treated as absence of data.
	_ = err

	line, ok := l.takeLine()
	if !ok {
		return nil, nil
	}
	if len(line) == 0 {
		return nil, nil
	}
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, fmt.Errorf("decode frame %q: %w", line, err)
	}
	return &m, nil
}

// takeLine removes the next newline-terminated line from the pending
// buffer, without its terminator.
func (l *Link) takeLine() ([]byte, bool) {
	b := l.pending.Bytes()
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return nil, false
	}
	line := make([]byte, i)
	copy(line, b[:i])
	l.pending.Next(i + 1)
	return bytes.TrimSpace(line), true
}

// Close closes the underlying serial port, when there is one.
func (l *Link) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
