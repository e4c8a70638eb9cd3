package terminalio

import (
	"bytes"
	"testing"

	"github.com/stlalpha/vgaterm/internal/render"
)

func TestCP437Writer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"ascii", "Hello", []byte("Hello")},
		{"escape passthrough", "\x1b[0;31;40mA", []byte("\x1b[0;31;40mA")},
		{"box drawing", "│ ║", []byte{0xB3, 0x20, 0xBA}},
		{"low glyph", "☺", []byte{0x01}},
		{"house", "⌂", []byte{0x7F}},
		{"unmapped", "π€", []byte{0xE3, '?'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			n, err := NewCP437Writer(&out).Write([]byte(tt.input))
			if err != nil {
				t.Fatalf("Write: %v", err)
			}
			if n != len(tt.input) {
				t.Errorf("n = %d, want %d", n, len(tt.input))
			}
			if !bytes.Equal(out.Bytes(), tt.want) {
				t.Errorf("got % x, want % x", out.Bytes(), tt.want)
			}
		})
	}
}

func TestCP437Writer_SplitRune(t *testing.T) {
	var out bytes.Buffer
	w := NewCP437Writer(&out)
	block := []byte("█") // 3 bytes in UTF-8
	w.Write(block[:1])
	if out.Len() != 0 {
		t.Fatalf("partial rune written early: % x", out.Bytes())
	}
	w.Write(append(block[1:], 'x'))
	if want := []byte{0xDB, 'x'}; !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got % x, want % x", out.Bytes(), want)
	}
}

func TestCP437Writer_RoundTripsEveryGlyph(t *testing.T) {
	for i := 0x80; i < 0x100; i++ {
		var out bytes.Buffer
		NewCP437Writer(&out).Write([]byte(string(render.Glyph(byte(i)))))
		if out.Len() != 1 || out.Bytes()[0] != byte(i) {
			t.Errorf("glyph %#x encoded as % x", i, out.Bytes())
		}
	}
}
