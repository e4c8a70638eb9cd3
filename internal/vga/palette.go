package vga

// Attribute byte colors. The low nibble is the foreground, bits 4-6 the
// background.
const (
	Black   byte = 0x00
	Blue    byte = 0x01
	Green   byte = 0x02
	Cyan    byte = 0x03
	Red     byte = 0x04
	Magenta byte = 0x05
	Yellow  byte = 0x06 // Brown on real hardware
	White   byte = 0x07 // Light gray

	// DefaultAttr is white on black.
	DefaultAttr = White

	// Bright is OR-ed into the foreground for the high-intensity half of the
	// 16-color palette.
	Bright byte = 0x08
)

// Foreground returns the 0-15 foreground index of attr.
func Foreground(attr byte) byte { return attr & 0x0F }

// Background returns the 0-7 background index of attr.
func Background(attr byte) byte { return (attr >> 4) & 0x07 }
