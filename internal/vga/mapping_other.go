//go:build !unix

package vga

import "errors"

// ErrMappingClosed is returned when a closed mapping is closed again.
var ErrMappingClosed = errors.New("vga: mapping closed")

var errNoMmap = errors.New("vga: mapped display memory needs a unix system")

// Mapping is unavailable on this platform.
type Mapping struct{}

// Map always fails here.
func Map(path string, offset int64) (*Mapping, error) { return nil, errNoMmap }

func (m *Mapping) Load(off int) byte { return 0 }
func (m *Mapping) Store(off int, b byte) {}
func (m *Mapping) Sync() error { return errNoMmap }
func (m *Mapping) Close() error { return ErrMappingClosed }
