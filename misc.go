package lispobj

import (
	"fmt"
	"unsafe"
)

// MiscType is the subtype code at the start of every misc box. The codes
// start far from zero so that a stray word is unlikely to pass for one.
type MiscType uint16

const (
	MiscFree MiscType = 0x5eab + iota
	MiscMarker
	MiscOverlay
	MiscSaveValue
	MiscFinalizer
)

const miscHeaderBytes = 4

var miscNames = map[MiscType]string{
	MiscFree:      "free",
	MiscMarker:    "marker",
	MiscOverlay:   "overlay",
	MiscSaveValue: "save-value",
	MiscFinalizer: "finalizer",
}

func (t MiscType) String() string {
	if name, ok := miscNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MiscType(%#x)", uint16(t))
}

// Valid reports whether t is one of the known subtype codes.
func (t MiscType) Valid() bool {
	return t >= MiscFree && t <= MiscFinalizer
}

// MiscHeader is the fixed prefix shared by all misc boxes.
type MiscHeader struct {
	Type MiscType
	// GC mark bit and padding, owned by the collector.
	spacer uint16
}

// MiscHeader returns the header of the misc box o addresses.
func (l *Layout) MiscHeader(o Object) *MiscHeader {
	return (*MiscHeader)(unsafe.Pointer(l.UntaggedPointer(o)))
}

// MiscTypeOf reads the subtype of the misc box o addresses. o must be a misc
// word; a corrupted box yields an arbitrary code.
func (l *Layout) MiscTypeOf(o Object) MiscType {
	return l.MiscHeader(o).Type
}
