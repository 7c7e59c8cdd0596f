// Package host is a minimal stand-in for the host allocator: it creates the
// boxes tagged words point at and keeps them alive. It never collects.
//
// Boxes are addressed by integers inside words, which the Go collector cannot
// see, so the heap holds a Go reference to every box it hands out.
package host

import (
	"fmt"
	"unicode/utf8"
	"unsafe"

	"github.com/starfederation/lispobj"
	"github.com/tliron/commonlog"
)

const floatsPerBlock = 64

// floatSlots is the number of Object slots a FloatBox occupies.
const floatSlots = int(lispobj.FloatBoxBytes+7) / 8

type miscBox struct {
	header lispobj.MiscHeader
	_      uint32
	value  lispobj.Object
}

// Heap owns every box reachable from the words it returns. It is not safe
// for concurrent use.
//
// Boxes are carved from lispobj.AlignedWords slabs so their addresses leave
// the tag bits clear on every platform.
type Heap struct {
	l   *lispobj.Layout
	log commonlog.Logger

	slabs [][]lispobj.Object
	// text backs the Data pointers of string boxes, which live in slabs the
	// collector does not scan.
	text [][]byte

	floatBlocks [][]lispobj.Object
	floatUsed   int
	floats      map[uintptr]*lispobj.FloatBox
	floatState  map[uintptr]lispobj.FloatState
	freeFloats  uintptr
}

// New returns an empty heap for words built under l. l must describe this
// process's pointer width.
func New(l *lispobj.Layout) (*Heap, error) {
	if l.Sizes().Pointer != int(unsafe.Sizeof(uintptr(0))) {
		return nil, fmt.Errorf("host heap needs %d-byte words, layout is %s", unsafe.Sizeof(uintptr(0)), l.Config())
	}
	return &Heap{
		l:          l,
		log:        commonlog.GetLogger("lispobj.host"),
		floats:     make(map[uintptr]*lispobj.FloatBox),
		floatState: make(map[uintptr]lispobj.FloatState),
	}, nil
}

// Layout returns the layout the heap tags words with.
func (h *Heap) Layout() *lispobj.Layout {
	return h.l
}

func (h *Heap) tag(t lispobj.Type, p unsafe.Pointer) lispobj.Object {
	o, err := h.l.MakePointer(t, uintptr(p))
	if err != nil {
		panic(fmt.Sprintf("host: %v", err))
	}
	return o
}

func (h *Heap) slab(n int) unsafe.Pointer {
	words := lispobj.AlignedWords(n)
	h.slabs = append(h.slabs, words)
	return unsafe.Pointer(&words[0])
}

// Cons allocates a cons cell.
func (h *Heap) Cons(car, cdr lispobj.Object) lispobj.Object {
	p := h.slab(2)
	c := (*lispobj.ConsBox)(p)
	c.Car, c.Cdr = car, cdr
	return h.tag(lispobj.TypeCons, p)
}

// List builds a proper list of elems.
func (h *Heap) List(elems ...lispobj.Object) lispobj.Object {
	list := lispobj.Nil
	for i := len(elems) - 1; i >= 0; i-- {
		list = h.Cons(elems[i], list)
	}
	return list
}

// BuildString allocates a string box holding a copy of s. ASCII text is stored
// unibyte.
func (h *Heap) BuildString(s string) lispobj.Object {
	p := h.slab(4)
	b := (*lispobj.StringBox)(p)
	b.Size = int64(utf8.RuneCountInString(s))
	b.SizeByte = -1
	if b.Size != int64(len(s)) {
		b.SizeByte = int64(len(s))
	}
	if len(s) > 0 {
		data := []byte(s)
		h.text = append(h.text, data)
		b.Data = &data[0]
	}
	return h.tag(lispobj.TypeString, p)
}

// Misc allocates a misc box of subtype t carrying one word.
func (h *Heap) Misc(t lispobj.MiscType, value lispobj.Object) lispobj.Object {
	p := h.slab(2)
	b := (*miscBox)(p)
	b.header.Type = t
	b.value = value
	return h.tag(lispobj.TypeMisc, p)
}

// Vector allocates a normal vector holding elems.
func (h *Heap) Vector(elems ...lispobj.Object) lispobj.Object {
	p := h.slab(1 + len(elems))
	words := unsafe.Slice((*lispobj.Object)(p), 1+len(elems))
	copy(words[1:], elems)
	(*lispobj.VectorlikeHeader)(p).Size = int64(len(elems))
	return h.tag(lispobj.TypeVectorlike, p)
}

// Pseudovector allocates a zeroed pseudovector described by hdr.
func (h *Heap) Pseudovector(hdr lispobj.PseudovectorHeader) lispobj.Object {
	p := h.slab(1 + hdr.Count + hdr.Rest)
	(*lispobj.VectorlikeHeader)(p).Size = h.l.PseudovectorFlag() | lispobj.EncodePseudovector(hdr)
	return h.tag(lispobj.TypeVectorlike, p)
}

// Float allocates a float box holding f, reusing a freed box when one is
// available.
func (h *Heap) Float(f float64) lispobj.Object {
	var box *lispobj.FloatBox
	if h.freeFloats != 0 {
		addr := h.freeFloats
		box = h.floats[addr]
		h.freeFloats = box.AsChain()
		h.log.Debugf("reusing float box %#x", addr)
	} else {
		box = h.newFloatBox()
	}
	box.SetDouble(f)
	addr := uintptr(unsafe.Pointer(box))
	h.floatState[addr] = lispobj.FloatLive
	return h.tag(lispobj.TypeFloat, unsafe.Pointer(box))
}

func (h *Heap) newFloatBox() *lispobj.FloatBox {
	if len(h.floatBlocks) == 0 || h.floatUsed == floatsPerBlock {
		h.floatBlocks = append(h.floatBlocks, lispobj.AlignedWords(floatsPerBlock*floatSlots))
		h.floatUsed = 0
		h.log.Debugf("allocated float block %d", len(h.floatBlocks))
	}
	block := h.floatBlocks[len(h.floatBlocks)-1]
	box := (*lispobj.FloatBox)(unsafe.Pointer(&block[h.floatUsed*floatSlots]))
	h.floatUsed++
	h.floats[uintptr(unsafe.Pointer(box))] = box
	return box
}

// FreeFloat puts the box of a float word on the free list. Its double is
// gone afterwards; the word must not be used again.
func (h *Heap) FreeFloat(o lispobj.Object) error {
	if !h.l.IsFloat(o) {
		return fmt.Errorf("free float: %s word", h.l.TypeOf(o))
	}
	addr := h.l.UntaggedPointer(o)
	box, ok := h.floats[addr]
	if !ok {
		return fmt.Errorf("free float: %#x not allocated here", addr)
	}
	if h.floatState[addr] != lispobj.FloatLive {
		return fmt.Errorf("free float: %#x already free", addr)
	}
	box.SetChain(h.freeFloats)
	h.freeFloats = addr
	h.floatState[addr] = lispobj.FloatFree
	return nil
}

// FloatCell returns the box of a float word together with its state.
func (h *Heap) FloatCell(o lispobj.Object) (lispobj.FloatCell, error) {
	addr := h.l.UntaggedPointer(o)
	box, ok := h.floats[addr]
	if !h.l.IsFloat(o) || !ok {
		return lispobj.FloatCell{}, fmt.Errorf("%#x is not a float box of this heap", uint64(o))
	}
	return lispobj.FloatCell{Box: box, State: h.floatState[addr]}, nil
}

// FreeFloats returns the addresses on the float free list, most recently
// freed first.
func (h *Heap) FreeFloats() []uintptr {
	var out []uintptr
	for addr := h.freeFloats; addr != 0; {
		out = append(out, addr)
		cell := lispobj.FloatCell{Box: h.floats[addr], State: h.floatState[addr]}
		next, err := cell.Chain()
		if err != nil {
			h.log.Errorf("float free list: %v", err)
			break
		}
		addr = next
	}
	return out
}
