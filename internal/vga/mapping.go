//go:build unix

package vga

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrMappingClosed is returned when a closed mapping is closed again.
var ErrMappingClosed = errors.New("vga: mapping closed")

// Mapping is display memory shared with another process or device through
// mmap(MAP_SHARED). Stores land in the mapped pages immediately; whoever else
// maps the same file sees them without any flush from this side.
type Mapping struct {
	f    *os.File
	data []byte
}

// Map maps Size bytes of path starting at offset. A regular file shorter than
// offset+Size is grown first. offset must be a multiple of the page size.
func Map(path string, offset int64) (*Mapping, error) {
	if offset < 0 || offset%int64(os.Getpagesize()) != 0 {
		return nil, fmt.Errorf("map %s: offset %d not page aligned", path, offset)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open display region %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat display region %s: %w", path, err)
	}
	if fi.Mode().IsRegular() && fi.Size() < offset+Size {
		if err := f.Truncate(offset + Size); err != nil {
			f.Close()
			return nil, fmt.Errorf("grow display region %s: %w", path, err)
		}
	}
	data, err := unix.Mmap(int(f.Fd()), offset, Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap display region %s: %w", path, err)
	}
	return &Mapping{f: f, data: data}, nil
}

func (m *Mapping) Load(off int) byte { return m.data[off] }

// Store writes one byte into the shared pages. Reached through Memory, it is
// never merged with or reordered against neighboring stores.
func (m *Mapping) Store(off int, b byte) { m.data[off] = b }

// Sync flushes the mapped pages to the backing file.
func (m *Mapping) Sync() error {
	if m.data == nil {
		return ErrMappingClosed
	}
	return unix.Msync(m.data, unix.MS_SYNC)
}

// Close unmaps the region and closes the backing file.
func (m *Mapping) Close() error {
	if m.data == nil {
		return ErrMappingClosed
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
