package vga

// Cell is one decoded grid position.
type Cell struct {
	Ch   byte
	Attr byte
}

// Snapshot is a copy of the whole grid, indexed [row][column].
type Snapshot [Height][Width]Cell

// Writer is the only code path that mutates display memory. It holds no
// cursor; callers pass coordinates that are already in range.
type Writer struct {
	mem Memory
}

// NewWriter returns a writer over mem.
func NewWriter(mem Memory) *Writer {
	return &Writer{mem: mem}
}

// PutCell stores ch then attr at (x, y).
func (w *Writer) PutCell(x, y int, ch, attr byte) {
	off := Offset(x, y)
	w.mem.Store(off, ch)
	w.mem.Store(off+1, attr)
}

// Cell reads back the pair at (x, y).
func (w *Writer) Cell(x, y int) (ch, attr byte) {
	off := Offset(x, y)
	return w.mem.Load(off), w.mem.Load(off + 1)
}

// Clear fills every cell with a blank in attr.
func (w *Writer) Clear(attr byte) {
	for off := 0; off < Size; off += CellBytes {
		w.mem.Store(off, ' ')
		w.mem.Store(off+1, attr)
	}
}

// ScrollUp moves rows 1..Height-1 up by one and blanks the last row in attr.
// Rows are copied top to bottom so each source row is read before anything
// overwrites it.
func (w *Writer) ScrollUp(attr byte) {
	for row := 0; row < Height-1; row++ {
		for col := 0; col < Width; col++ {
			src := Offset(col, row+1)
			dst := Offset(col, row)
			ch := w.mem.Load(src)
			a := w.mem.Load(src + 1)
			w.mem.Store(dst, ch)
			w.mem.Store(dst+1, a)
		}
	}
	w.blankRow(Height-1, attr)
}

func (w *Writer) blankRow(row int, attr byte) {
	for col := 0; col < Width; col++ {
		w.PutCell(col, row, ' ', attr)
	}
}

// Snapshot copies the grid out of display memory.
func (w *Writer) Snapshot() Snapshot {
	var s Snapshot
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s[y][x].Ch, s[y][x].Attr = w.Cell(x, y)
		}
	}
	return s
}
