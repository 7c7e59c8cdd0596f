package lispobj

import (
	"errors"
	"fmt"
	"unsafe"
)

// Object is a tagged Lisp word. The bits are held zero-extended from the
// configured word width; a Layout gives them meaning.
//
// Objects are compared with ==. An Object never owns the box its payload may
// address, and a box address must not be kept across a point where the host
// allocator can run.
type Object uint64

// Nil is the symbol nil. It is the zero word under every layout.
const Nil Object = 0

const slotBytes = int(unsafe.Sizeof(Object(0)))

// BoxAlign is the alignment of every box address, which keeps the low three
// bits free for a tag.
const BoxAlign = 8

// ErrMisaligned is returned when an address cannot be carried in a word.
var ErrMisaligned = errors.New("address cannot be tagged")

// Wrap reinterprets a signed host word as an Object. raw must encode a
// well-formed value under l.
func (l *Layout) Wrap(raw int64) Object {
	return Object(uint64(raw) & l.wordMask)
}

// Raw returns the signed host word for o.
func (l *Layout) Raw(o Object) int64 {
	shift := 64 - l.WordBits
	return int64(uint64(o)<<shift) >> shift
}

// tagCode extracts the tag bits of o. Bits outside the word survive the
// mask, so stray high bits surface as a code of 8 or more.
func (l *Layout) tagCode(o Object) uint64 {
	if l.cfg.LSBTag {
		return uint64(o) &^ l.valMaskBits
	}
	return uint64(o) >> l.ValBits
}

// TypeOf classifies o. The result is defined only for words built under l.
func (l *Layout) TypeOf(o Object) Type {
	return l.types[l.tagCode(o)&(NumTypes-1)]
}

// UntaggedPointer strips the tag from o and returns the box address it
// carries. o must be of a pointer-bearing type.
func (l *Layout) UntaggedPointer(o Object) uintptr {
	return uintptr(uint64(o) & l.valMaskBits)
}

// MakePointer tags the box address addr with t. In low-bit mode the address
// must leave the tag bits clear; in high-bit mode it must fit the payload.
func (l *Layout) MakePointer(t Type, addr uintptr) (Object, error) {
	if !t.PointerBearing() {
		return Nil, fmt.Errorf("%s words do not carry an address", t)
	}
	a := uint64(addr)
	if a&^l.valMaskBits != 0 {
		return Nil, fmt.Errorf("%w: %#x as %s", ErrMisaligned, a, t)
	}
	code := uint64(l.codes[t])
	if l.cfg.LSBTag {
		return Object(a | code), nil
	}
	return Object(a | code<<l.ValBits), nil
}

// AlignedWords returns n zeroed slots starting on a BoxAlign boundary, for
// hosts laying out boxes. 32-bit platforms align uint64 to four bytes only,
// so the slots are carved from a buffer one slot longer than needed.
func AlignedWords(n int) []Object {
	buf := make([]Object, n+1)
	p := unsafe.Pointer(&buf[0])
	if off := uintptr(p) % BoxAlign; off != 0 {
		p = unsafe.Add(p, BoxAlign-off)
	}
	return unsafe.Slice((*Object)(p), n)
}

func (l *Layout) IsSymbol(o Object) bool {
	return l.tagCode(o) == uint64(l.codes[TypeSymbol])
}

func (l *Layout) IsMisc(o Object) bool {
	return l.tagCode(o) == uint64(l.codes[TypeMisc])
}

func (l *Layout) IsString(o Object) bool {
	return l.tagCode(o) == uint64(l.codes[TypeString])
}

func (l *Layout) IsVectorlike(o Object) bool {
	return l.tagCode(o) == uint64(l.codes[TypeVectorlike])
}

func (l *Layout) IsCons(o Object) bool {
	return l.tagCode(o) == uint64(l.codes[TypeCons])
}

func (l *Layout) IsFloat(o Object) bool {
	return l.tagCode(o) == uint64(l.codes[TypeFloat])
}

// IsNil reports whether o is nil.
func (o Object) IsNil() bool {
	return o == Nil
}

// Type classifies o under the native layout.
func (o Object) Type() Type {
	return Native().TypeOf(o)
}

// Untagged returns the box address of o under the native layout.
func (o Object) Untagged() uintptr {
	return Native().UntaggedPointer(o)
}

// GoString renders o with the debug formatter of the native layout.
func (o Object) GoString() string {
	return Native().Debug(&o)
}
