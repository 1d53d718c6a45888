// Package escpos is a thin ESC/POS client for network receipt printers.
// It implements the styled-text and paper-cut surface the print dispatcher
// needs; it is not a general ESC/POS driver.
package escpos

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"tableflow/internal/domain/print"
)

// ESC/POS command sequences.
const (
	cmdInit     = "\x1b@"   // ESC @  initialize printer
	cmdAlign    = "\x1ba"   // ESC a n  justification
	cmdEmphasis = "\x1bE"   // ESC E n  emphasized mode
	cmdSize     = "\x1d!"   // GS ! n  character size
	cmdCut      = "\x1dV\x00" // GS V 0  full cut
)

// defaultPort is the raw-print TCP port most receipt printers listen on.
const defaultPort = "9100"

var _ print.Client = (*Client)(nil)

// Client opens ESC/POS sessions over TCP. Connects and writes are bounded by
// the configured timeouts so an unreachable printer fails fast.
type Client struct {
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewClient creates a Client with the given connect and write timeouts.
func NewClient(dialTimeout, writeTimeout time.Duration) *Client {
	return &Client{
		dialTimeout:  dialTimeout,
		writeTimeout: writeTimeout,
	}
}

// Open dials the printer and starts an initialized session. Addresses
// without an explicit port get the standard raw-print port.
func (c *Client) Open(ctx context.Context, addr string) (print.Receipt, error) {
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, defaultPort)
	}

	d := net.Dialer{Timeout: c.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial printer %s", addr)
	}

	// The deadline covers the whole session: receipts larger than the buffer
	// auto-flush mid-session, and those writes must be bounded too.
	if c.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "set write deadline")
		}
	}

	s := &Session{
		conn:         conn,
		w:            bufio.NewWriter(conn),
		writeTimeout: c.writeTimeout,
	}
	s.w.WriteString(cmdInit)
	return s, nil
}

var _ print.Receipt = (*Session)(nil)

// Session is one open receipt. Output is buffered and flushed by Cut; the
// connection carries a write deadline from Open, so every write to it,
// including buffer overflow flushes before Cut, is bounded.
type Session struct {
	conn         net.Conn
	w            *bufio.Writer
	writeTimeout time.Duration
}

// NewSession wraps an arbitrary writer in a Session, for rendering receipts
// without a printer connection.
func NewSession(w io.Writer) *Session {
	return &Session{w: bufio.NewWriter(w)}
}

// Style sets justification, character scale, and emphasis for subsequent
// Text calls. Scale n produces n-times width and height; values outside
// [1, 8] are clamped.
func (s *Session) Style(align print.Align, scale int, emphasized bool) {
	var n byte
	switch align {
	case print.AlignCenter:
		n = 1
	case print.AlignRight:
		n = 2
	default:
		n = 0
	}
	s.w.WriteString(cmdAlign)
	s.w.WriteByte(n)

	if scale < 1 {
		scale = 1
	}
	if scale > 8 {
		scale = 8
	}
	size := byte(scale-1)<<4 | byte(scale-1)
	s.w.WriteString(cmdSize)
	s.w.WriteByte(size)

	s.w.WriteString(cmdEmphasis)
	if emphasized {
		s.w.WriteByte(1)
	} else {
		s.w.WriteByte(0)
	}
}

// Text buffers literal receipt text.
func (s *Session) Text(t string) {
	s.w.WriteString(t)
}

// Cut feeds past the blade, emits a full cut, and flushes everything to the
// printer.
func (s *Session) Cut() error {
	s.w.WriteString("\n\n\n\n")
	s.w.WriteString(cmdCut)

	if s.conn != nil && s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return errors.Wrap(err, "set write deadline")
		}
	}
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, "flush receipt")
	}
	return nil
}

// Close releases the printer connection.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
