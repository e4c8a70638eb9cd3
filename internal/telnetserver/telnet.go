package telnetserver

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/stlalpha/vgaterm/internal/logging"
)

// Telnet protocol constants
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Subnegotiation Begin
	SE   byte = 240 // Subnegotiation End

	OptEcho     byte = 1  // Echo option
	OptSGA      byte = 3  // Suppress Go Ahead
	OptLinemode byte = 34 // Linemode
)

const negotiateWait = 300 * time.Millisecond

// telnetState tracks the IAC state machine
type telnetState int

const (
	stateData telnetState = iota
	stateCR               // After CR: a following NUL or LF is dropped
	stateIAC
	stateOption // WILL/WONT/DO/DONT seen, option byte next
	stateSB
	stateSBIAC
)

// Conn wraps a net.Conn with telnet protocol awareness.
// Read strips IAC commands and the NUL or LF a client sends after CR;
// Write escapes 0xFF bytes.
type Conn struct {
	conn    net.Conn
	reader  *bufio.Reader
	writeMu sync.Mutex

	// IAC state machine (persists across Read calls)
	state   telnetState
	pending []byte // Data that arrived during negotiation
}

// NewConn wraps an existing net.Conn with telnet protocol handling.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 256),
		state:  stateData,
	}
}

// Negotiate puts the client in character mode with server-side echo and
// consumes the client's replies.
func (tc *Conn) Negotiate() error {
	negotiations := []byte{
		IAC, WILL, OptEcho,
		IAC, WILL, OptSGA,
		IAC, DO, OptSGA,
		IAC, DONT, OptLinemode,
	}

	tc.writeMu.Lock()
	_, err := tc.conn.Write(negotiations)
	tc.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send telnet negotiations: %w", err)
	}

	tc.conn.SetReadDeadline(time.Now().Add(negotiateWait))
	buf := make([]byte, 64)
	for {
		n, err := tc.reader.Read(buf)
		if n > 0 {
			logging.Debug("Telnet negotiation reply: % x", buf[:n])
			tc.pending = tc.strip(buf[:n], tc.pending)
		}
		if err != nil || tc.reader.Buffered() == 0 {
			break
		}
	}
	tc.conn.SetReadDeadline(time.Time{})
	return nil
}

// strip runs data through the IAC state machine and appends the data bytes
// to out.
func (tc *Conn) strip(data, out []byte) []byte {
	for _, b := range data {
		switch tc.state {
		case stateCR:
			tc.state = stateData
			if b == 0 || b == '\n' {
				continue
			}
			fallthrough
		case stateData:
			switch b {
			case IAC:
				tc.state = stateIAC
			case '\r':
				out = append(out, b)
				tc.state = stateCR
			default:
				out = append(out, b)
			}

		case stateIAC:
			switch b {
			case IAC:
				// Escaped 0xFF
				out = append(out, IAC)
				tc.state = stateData
			case WILL, WONT, DO, DONT:
				tc.state = stateOption
			case SB:
				tc.state = stateSB
			default:
				// Other IAC commands (BRK, IP, AYT, etc.) - consume
				tc.state = stateData
			}

		case stateOption:
			tc.state = stateData

		case stateSB:
			if b == IAC {
				tc.state = stateSBIAC
			}

		case stateSBIAC:
			if b == SE {
				tc.state = stateData
			} else {
				tc.state = stateSB
			}
		}
	}
	return out
}

// Read reads data from the telnet connection, stripping IAC commands.
// It blocks until at least one data byte is available.
func (tc *Conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(tc.pending) > 0 {
		n := copy(p, tc.pending)
		tc.pending = tc.pending[n:]
		return n, nil
	}
	buf := make([]byte, len(p))
	for {
		n, err := tc.reader.Read(buf)
		out := tc.strip(buf[:n], p[:0])
		if len(out) > 0 || err != nil {
			return len(out), err
		}
	}
}

// Write writes data to the telnet connection, escaping any 0xFF bytes as IAC IAC.
func (tc *Conn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	tc.writeMu.Lock()
	defer tc.writeMu.Unlock()

	if !bytes.Contains(p, []byte{IAC}) {
		return tc.conn.Write(p)
	}

	escaped := bytes.ReplaceAll(p, []byte{IAC}, []byte{IAC, IAC})
	if _, err := tc.conn.Write(escaped); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the telnet connection.
func (tc *Conn) Close() error {
	return tc.conn.Close()
}

// RemoteAddr returns the remote network address.
func (tc *Conn) RemoteAddr() net.Addr {
	return tc.conn.RemoteAddr()
}
