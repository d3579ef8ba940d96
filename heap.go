package cminic

// Heap is a flat, integer-addressed memory pool backing MALLOC/FREE
// and pointer load/store. Grounded on Environment.h's commented-out
// Heap sketch (Malloc/Free/Update/get) in the original C++
// interpreter, which the Go port makes concrete: a bump allocator over
// a fixed-size byte region, as spec.md §4.1 prescribes.
type Heap struct {
	cells    []byte
	bump     int
	cellSize int
}

// NewHeap allocates a heap region of sizeBytes bytes, addressing
// pointer-sized cells of cellSize bytes each (spec.md's "pointer
// step-size is the width of an integer cell").
func NewHeap(sizeBytes, cellSize int) *Heap {
	return &Heap{
		cells:    make([]byte, sizeBytes),
		cellSize: cellSize,
	}
}

// PtrSize returns the width in bytes of a pointer cell.
func (h *Heap) PtrSize() int { return h.cellSize }

// Scale returns step scaled by the pointer width, used by pointer
// arithmetic (spec.md §4.1 `scale`).
func (h *Heap) Scale(step int64) int64 { return step * int64(h.cellSize) }

// Malloc returns the current bump offset then advances it by size
// bytes. The bump-allocator typo mentioned in spec.md's Open
// Questions ("one revision ... contained a typo (=+) that does not
// advance the offset") is why this is phrased as `h.bump += size`
// rather than anything cleverer: it must actually advance.
func (h *Heap) Malloc(size int) (int64, error) {
	if size < 0 || h.bump+size > len(h.cells) {
		return 0, newEvalError(ErrOOM, nil, "heap exhausted: requested %d bytes, %d available", size, len(h.cells)-h.bump)
	}
	addr := h.bump
	h.bump += size
	return int64(addr), nil
}

// Free is a no-op: the naive policy (never reclaim) is part of the
// contract spec.md §4.1 describes.
func (h *Heap) Free(addr int64) {}

// Load reads the cellSize-byte signed cell at byte offset addr.
func (h *Heap) Load(addr int64) (int64, error) {
	if err := h.checkAligned(addr); err != nil {
		return 0, err
	}
	var v int64
	off := int(addr)
	for i := 0; i < h.cellSize; i++ {
		v |= int64(h.cells[off+i]) << (8 * i)
	}
	// sign-extend from cellSize*8 bits
	shift := uint(64 - h.cellSize*8)
	return (v << shift) >> shift, nil
}

// Store writes v into the cellSize-byte cell at byte offset addr.
func (h *Heap) Store(addr int64, v int64) error {
	if err := h.checkAligned(addr); err != nil {
		return err
	}
	off := int(addr)
	for i := 0; i < h.cellSize; i++ {
		h.cells[off+i] = byte(v >> (8 * i))
	}
	return nil
}

func (h *Heap) checkAligned(addr int64) error {
	if addr < 0 || int(addr)+h.cellSize > len(h.cells) {
		return newEvalError(ErrOOM, nil, "heap address %d out of range", addr)
	}
	if addr%int64(h.cellSize) != 0 {
		return newEvalError(ErrOOM, nil, "heap address %d is not cell-aligned (cell=%d)", addr, h.cellSize)
	}
	return nil
}
