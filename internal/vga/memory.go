// Package vga models a VGA text-mode display region: an 80x25 grid of
// (character, attribute) byte pairs and the single writer allowed to change it.
package vga

const (
	Width     = 80 // Columns
	Height    = 25 // Rows
	CellBytes = 2  // Character byte followed by attribute byte

	// Size is the byte length of the whole display region.
	Size = Width * Height * CellBytes
)

// Memory is the display region as seen by the writer. Offsets run from 0 to
// Size-1. Implementations must perform every Store individually and in call
// order; the region may be observed by something outside this process.
// Writer only reaches memory through this interface, and the compiler cannot
// see through a dynamic call, so it can neither drop a store nor move one
// past another. Mapping's stores go straight into MAP_SHARED pages.
type Memory interface {
	Load(off int) byte
	Store(off int, b byte)
}

// Offset returns the byte offset of the cell at column x, row y.
func Offset(x, y int) int {
	return (y*Width + x) * CellBytes
}

// Buffer is display memory held in the process.
type Buffer struct {
	data [Size]byte
}

// NewBuffer returns zeroed display memory.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Load(off int) byte { return b.data[off] }

func (b *Buffer) Store(off int, v byte) { b.data[off] = v }

// Bytes exposes the raw region in hardware layout.
func (b *Buffer) Bytes() []byte { return b.data[:] }

// StoreOp is one recorded write.
type StoreOp struct {
	Off int
	B   byte
}

// Access is one recorded load or store.
type Access struct {
	Off   int
	B     byte
	Write bool
}

// Recorder wraps Memory and keeps every access in the order it was issued.
// Stores holds the writes alone; Accesses interleaves loads and stores.
type Recorder struct {
	Memory
	Stores   []StoreOp
	Accesses []Access
}

// NewRecorder records accesses made to m.
func NewRecorder(m Memory) *Recorder {
	return &Recorder{Memory: m}
}

func (r *Recorder) Load(off int) byte {
	b := r.Memory.Load(off)
	r.Accesses = append(r.Accesses, Access{Off: off, B: b})
	return b
}

func (r *Recorder) Store(off int, b byte) {
	r.Stores = append(r.Stores, StoreOp{Off: off, B: b})
	r.Accesses = append(r.Accesses, Access{Off: off, B: b, Write: true})
	r.Memory.Store(off, b)
}

// Reset forgets recorded accesses.
func (r *Recorder) Reset() {
	r.Stores = r.Stores[:0]
	r.Accesses = r.Accesses[:0]
}
