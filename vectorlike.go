package lispobj

import (
	"fmt"
	"unsafe"
)

// Pseudovector size field layout. A pseudovector stores three fields in the
// size word of its header:
//
//	bits  0..12  count of Lisp_Object slots
//	bits 12..24  count of remaining words
//	bits 24..30  PseudovectorType
const (
	PseudovectorSizeBits = 12
	PseudovectorRestBits = 12
	PseudovectorTypeBits = 6

	PseudovectorRestShift = PseudovectorSizeBits
	PseudovectorTypeShift = PseudovectorSizeBits + PseudovectorRestBits

	PseudovectorSizeMask = 1<<PseudovectorSizeBits - 1
	PseudovectorRestMask = (1<<PseudovectorRestBits - 1) << PseudovectorRestShift
	PseudovectorTypeMask = (1<<PseudovectorTypeBits - 1) << PseudovectorTypeShift
)

// PseudovectorType identifies the kind of a vector-like object.
type PseudovectorType uint8

const (
	PvecNormalVector PseudovectorType = iota
	PvecFree
	PvecProcess
	PvecFrame
	PvecWindow
	PvecBoolVector
	PvecBuffer
	PvecHashTable
	PvecTerminal
	PvecWindowConfiguration
	PvecSubr
	PvecOther
	PvecXwidget
	PvecXwidgetView
	PvecCompiled
	PvecCharTable
	PvecSubCharTable
	PvecFont
)

var pvecNames = [...]string{
	PvecNormalVector:        "normal-vector",
	PvecFree:                "free",
	PvecProcess:             "process",
	PvecFrame:               "frame",
	PvecWindow:              "window",
	PvecBoolVector:          "bool-vector",
	PvecBuffer:              "buffer",
	PvecHashTable:           "hash-table",
	PvecTerminal:            "terminal",
	PvecWindowConfiguration: "window-configuration",
	PvecSubr:                "subr",
	PvecOther:               "other",
	PvecXwidget:             "xwidget",
	PvecXwidgetView:         "xwidget-view",
	PvecCompiled:            "compiled",
	PvecCharTable:           "char-table",
	PvecSubCharTable:        "sub-char-table",
	PvecFont:                "font",
}

func (t PseudovectorType) String() string {
	if int(t) < len(pvecNames) {
		return pvecNames[t]
	}
	return fmt.Sprintf("PseudovectorType(%d)", uint8(t))
}

// Valid reports whether t names a known pseudovector kind.
func (t PseudovectorType) Valid() bool {
	return int(t) < len(pvecNames)
}

// PseudovectorHeader is the decoded size word of a pseudovector.
type PseudovectorHeader struct {
	Count int
	Rest  int
	Type  PseudovectorType
}

// DecodePseudovector splits a pseudovector size word into its fields.
func DecodePseudovector(size int64) PseudovectorHeader {
	return PseudovectorHeader{
		Count: int(size & PseudovectorSizeMask),
		Rest:  int((size & PseudovectorRestMask) >> PseudovectorRestShift),
		Type:  PseudovectorType((size & PseudovectorTypeMask) >> PseudovectorTypeShift),
	}
}

// EncodePseudovector packs h into the low 30 bits of a size word. Fields
// wider than their slots are truncated. The pseudovector flag is not set.
func EncodePseudovector(h PseudovectorHeader) int64 {
	return int64(h.Count)&PseudovectorSizeMask |
		int64(h.Rest)<<PseudovectorRestShift&PseudovectorRestMask |
		int64(h.Type)<<PseudovectorTypeShift&PseudovectorTypeMask
}

// PseudovectorFlag is the size bit that marks a pseudovector: the highest
// non-sign bit of a word.
func (l *Layout) PseudovectorFlag() int64 {
	return l.WordMax - l.WordMax/2
}

// IsPseudovector reports whether a header size word has the flag set.
func (l *Layout) IsPseudovector(size int64) bool {
	return size&l.PseudovectorFlag() != 0
}

// VectorlikeHeader is the first slot of every vector-like box. For normal
// vectors Size is the element count. The header is one Object wide on every
// platform so the slots after it stay on Object boundaries.
type VectorlikeHeader struct {
	Size int64
}

// Vectorlike returns the header of the box o addresses. o must be a
// vector-like word.
func (l *Layout) Vectorlike(o Object) *VectorlikeHeader {
	return (*VectorlikeHeader)(unsafe.Pointer(l.UntaggedPointer(o)))
}

// PseudovectorTypeOf classifies the vector-like box o addresses. Vectors
// without the pseudovector flag are PvecNormalVector.
func (l *Layout) PseudovectorTypeOf(o Object) PseudovectorType {
	size := l.Vectorlike(o).Size
	if !l.IsPseudovector(size) {
		return PvecNormalVector
	}
	return DecodePseudovector(size).Type
}

// VectorContents returns the slots of a normal vector. The slice aliases
// host memory and is valid only for the current call.
func (l *Layout) VectorContents(o Object) []Object {
	h := l.Vectorlike(o)
	if h.Size <= 0 || l.IsPseudovector(h.Size) {
		return nil
	}
	first := (*Object)(unsafe.Add(unsafe.Pointer(h), unsafe.Sizeof(VectorlikeHeader{})))
	return unsafe.Slice(first, h.Size)
}
