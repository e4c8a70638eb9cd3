package telnetserver

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stlalpha/vgaterm/internal/remote"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"plain", []byte("abc"), []byte("abc")},
		{"option", []byte{'a', IAC, WILL, OptEcho, 'b'}, []byte("ab")},
		{"escaped 0xFF", []byte{IAC, IAC}, []byte{0xFF}},
		{"subnegotiation", []byte{IAC, SB, 31, 0, 80, 0, 25, IAC, SE, 'x'}, []byte("x")},
		{"cr nul", []byte{'\r', 0, 'a'}, []byte("\ra")},
		{"cr lf", []byte("a\r\nb"), []byte("a\rb")},
		{"bare cr", []byte("\rz"), []byte("\rz")},
		{"other command", []byte{IAC, 246, 'q'}, []byte("q")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &Conn{}
			got := tc.strip(tt.in, nil)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("strip(% x) = % x, want % x", tt.in, got, tt.want)
			}
		})
	}
}

func TestStrip_SplitAcrossReads(t *testing.T) {
	tc := &Conn{}
	out := tc.strip([]byte{'a', IAC}, nil)
	out = tc.strip([]byte{DO, OptSGA, '\r'}, out)
	out = tc.strip([]byte{'\n', 'b'}, out)
	if string(out) != "a\rb" {
		t.Errorf("got %q", out)
	}
}

func TestWriteEscapesIAC(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	tc := NewConn(server)
	defer tc.Close()

	go tc.Write([]byte{'a', 0xFF, 'b'})

	got := make([]byte, 4)
	if _, err := io.ReadFull(client, got); err != nil {
		t.Fatal(err)
	}
	if want := []byte{'a', IAC, IAC, 'b'}; !bytes.Equal(got, want) {
		t.Errorf("wire bytes = % x, want % x", got, want)
	}
}

func TestServer_PlaysConsole(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	srv, err := NewServer(Config{SessionHandler: func(id string, conn *Conn) {
		defer close(done)
		remote.Play(conn, remote.NewConsole(1))
	}})
	if err != nil {
		t.Fatal(err)
	}
	go srv.Serve(l)
	defer srv.Close()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	neg := make([]byte, 12)
	if _, err := io.ReadFull(conn, neg); err != nil {
		t.Fatalf("reading negotiation: %v", err)
	}
	if neg[0] != IAC || neg[1] != WILL || neg[2] != OptEcho {
		t.Errorf("negotiation starts % x", neg[:3])
	}

	go io.Copy(io.Discard, conn)
	conn.Write([]byte{IAC, DO, OptEcho, 'h', 'i', 0x03})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end on ^C")
	}
}

func TestServer_CloseEndsSessions(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	started := make(chan struct{})
	ended := make(chan struct{})
	srv, err := NewServer(Config{SessionHandler: func(id string, conn *Conn) {
		close(started)
		io.Copy(io.Discard, conn)
		close(ended)
	}})
	if err != nil {
		t.Fatal(err)
	}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(l) }()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	go io.Copy(io.Discard, conn)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("session never started")
	}
	srv.Close()

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("Close left the session running")
	}
	if err := <-served; err != ErrServerClosed {
		t.Errorf("Serve returned %v, want ErrServerClosed", err)
	}
}

func TestNewServer_Validation(t *testing.T) {
	h := func(string, *Conn) {}
	if _, err := NewServer(Config{Port: 23}); err == nil {
		t.Error("expected error without a handler")
	}
	if _, err := NewServer(Config{Port: 70000, SessionHandler: h}); err == nil {
		t.Error("expected error for port 70000")
	}
	srv, err := NewServer(Config{Port: 2324, SessionHandler: h})
	if err != nil {
		t.Fatal(err)
	}
	if srv.addr != "0.0.0.0:2324" {
		t.Errorf("addr = %q", srv.addr)
	}
}
