package lispobj

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"
)

const (
	doubleBytes  = 8
	pointerBytes = unsafe.Sizeof(uintptr(0))
	// FloatBoxBytes is the size of a FloatBox in this process.
	FloatBoxBytes = max(doubleBytes, pointerBytes)
)

// ErrFloatState is returned when a FloatCell is read the wrong way for its
// allocation state.
var ErrFloatState = errors.New("float box read in wrong state")

// FloatBox is the storage of a boxed float. While the box is live it holds
// a double; while it sits on the allocator's free list the same bytes hold
// the address of the next free box. Nothing in the box says which.
type FloatBox struct {
	data [FloatBoxBytes]byte
}

// AsDouble reads the box as a double. The box must be live.
func (b *FloatBox) AsDouble() float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(b.data[:doubleBytes]))
}

// SetDouble stores f in the box.
func (b *FloatBox) SetDouble(f float64) {
	binary.NativeEndian.PutUint64(b.data[:doubleBytes], math.Float64bits(f))
}

// AsChain reads the box as a free-list link. The box must be free.
func (b *FloatBox) AsChain() uintptr {
	if pointerBytes == 4 {
		return uintptr(binary.NativeEndian.Uint32(b.data[:4]))
	}
	return uintptr(binary.NativeEndian.Uint64(b.data[:8]))
}

// SetChain stores the address of the next free box.
func (b *FloatBox) SetChain(next uintptr) {
	if pointerBytes == 4 {
		binary.NativeEndian.PutUint32(b.data[:4], uint32(next))
		return
	}
	binary.NativeEndian.PutUint64(b.data[:8], uint64(next))
}

// FloatState records which reading of a FloatBox is valid.
type FloatState uint8

const (
	FloatLive FloatState = iota
	FloatFree
)

func (s FloatState) String() string {
	switch s {
	case FloatLive:
		return "live"
	case FloatFree:
		return "free"
	default:
		return fmt.Sprintf("FloatState(%d)", uint8(s))
	}
}

// FloatCell pairs a box with its allocation state, which the owner of the
// box tracks outside it.
type FloatCell struct {
	Box   *FloatBox
	State FloatState
}

// Double returns the value of a live cell.
func (c FloatCell) Double() (float64, error) {
	if c.State != FloatLive {
		return 0, fmt.Errorf("%w: double read from %s box", ErrFloatState, c.State)
	}
	return c.Box.AsDouble(), nil
}

// Chain returns the free-list link of a free cell.
func (c FloatCell) Chain() (uintptr, error) {
	if c.State != FloatFree {
		return 0, fmt.Errorf("%w: chain read from %s box", ErrFloatState, c.State)
	}
	return c.Box.AsChain(), nil
}

// FloatBox returns the box a float word addresses. o must be a live float.
func (l *Layout) FloatBox(o Object) *FloatBox {
	return (*FloatBox)(unsafe.Pointer(l.UntaggedPointer(o)))
}

// ExtractNumeric returns the numeric value of a float or fixnum word.
func (l *Layout) ExtractNumeric(o Object) (float64, bool) {
	if l.IsFloat(o) {
		return l.FloatBox(o).AsDouble(), true
	}
	if n, ok := l.Unpack(o); ok {
		return float64(n), true
	}
	return 0, false
}
