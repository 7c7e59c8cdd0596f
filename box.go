package lispobj

import "unsafe"

// ConsBox is a cons cell.
type ConsBox struct {
	Car Object
	Cdr Object
}

// Cons returns the cell o addresses. o must be a cons word.
func (l *Layout) Cons(o Object) *ConsBox {
	return (*ConsBox)(unsafe.Pointer(l.UntaggedPointer(o)))
}

// StringBox is the header of a Lisp string.
type StringBox struct {
	// Size is the length in characters.
	Size int64
	// SizeByte is the length in bytes, or negative for a unibyte string
	// whose byte length equals Size.
	SizeByte int64
	// Intervals is the host's text property tree. Opaque here.
	Intervals uintptr
	Data      *byte
}

// Multibyte reports whether the string holds multibyte text.
func (s *StringBox) Multibyte() bool {
	return s.SizeByte >= 0
}

// Bytes returns the string's data without copying.
func (s *StringBox) Bytes() []byte {
	n := s.SizeByte
	if n < 0 {
		n = s.Size
	}
	if s.Data == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(s.Data, n)
}

// StringBox returns the string box o addresses. o must be a string word.
func (l *Layout) StringBox(o Object) *StringBox {
	return (*StringBox)(unsafe.Pointer(l.UntaggedPointer(o)))
}
