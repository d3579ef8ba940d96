package cminic

// Array is a fixed-length sequence of integers tagged with the stack
// depth it was created at. Grounded directly on Environment.h's Array
// class (`mArr` a std::vector<int>, `mScope`). The scope tag is
// recorded but, per spec.md's Open Questions, not yet consumed for
// reclamation.
type Array struct {
	scope int
	cells []int64
}

func newArray(size, scope int) *Array {
	return &Array{scope: scope, cells: make([]int64, size)}
}

func (a *Array) len() int { return len(a.cells) }

func (a *Array) get(i int64) (int64, error) {
	if i < 0 || int(i) >= len(a.cells) {
		return 0, newEvalError(ErrOOM, nil, "array index %d out of bounds (len=%d)", i, len(a.cells))
	}
	return a.cells[i], nil
}

func (a *Array) set(i, v int64) error {
	if i < 0 || int(i) >= len(a.cells) {
		return newEvalError(ErrOOM, nil, "array index %d out of bounds (len=%d)", i, len(a.cells))
	}
	a.cells[i] = v
	return nil
}

// ArrayPool is the process-wide vector of arrays every array-typed
// variable resolves an index ("handle") into. Grounded on
// Environment's `mArrays` field plus the handle-is-a-stable-slice-index
// shape of vm_stack.go's stack.
type ArrayPool struct {
	arrays []*Array
}

// ArrayHandle is a stable index into an ArrayPool, issued once and
// valid for the lifetime of the interpreter (spec.md §3 invariants).
type ArrayHandle int

func newArrayPool() *ArrayPool {
	return &ArrayPool{}
}

// Alloc creates a fresh array of the given size at the given scope
// depth and returns its handle.
func (p *ArrayPool) Alloc(size, scope int) ArrayHandle {
	p.arrays = append(p.arrays, newArray(size, scope))
	return ArrayHandle(len(p.arrays) - 1)
}

func (p *ArrayPool) get(h ArrayHandle) (*Array, error) {
	if h < 0 || int(h) >= len(p.arrays) {
		return nil, newEvalError(ErrUnsupported, nil, "invalid array handle %d", h)
	}
	return p.arrays[h], nil
}

// Get returns the value at index i in the array identified by h.
func (p *ArrayPool) Get(h ArrayHandle, i int64) (int64, error) {
	arr, err := p.get(h)
	if err != nil {
		return 0, err
	}
	return arr.get(i)
}

// Set stores v at index i in the array identified by h.
func (p *ArrayPool) Set(h ArrayHandle, i, v int64) error {
	arr, err := p.get(h)
	if err != nil {
		return err
	}
	return arr.set(i, v)
}
