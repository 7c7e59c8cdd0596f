package lispobj

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrConfigured is returned by Configure once the native layout is in use.
var ErrConfigured = errors.New("native layout already configured")

// Layout holds the constants derived from a Config. Every word operation in
// this package is a method on Layout so that one process can inspect words
// from hosts built with other widths or tagging modes.
type Layout struct {
	cfg Config

	WordBits    uint // bits in EMACS_INT
	TagBits     uint // GCTYPEBITS
	ValBits     uint // bits left for the payload
	IntTypeBits uint // tag bits consumed by a fixnum
	FixnumBits  uint // payload bits of a fixnum

	WordMax int64 // EMACS_INT_MAX
	ValMax  int64
	// ValMask is the AND mask that strips the tag. In low-bit mode it is
	// -(1 << TagBits), a negative number whose sign extension matters.
	ValMask int64
	IntMask int64

	MostPositiveFixnum int64
	MostNegativeFixnum int64

	wordMask    uint64 // all bits of a word
	valMaskBits uint64 // ValMask truncated to a word
	codes       [NumTypes]uint8
	types       [NumTypes]Type
}

// NewLayout validates cfg and derives its constants.
func NewLayout(cfg Config) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Layout{cfg: cfg}
	l.WordBits = uint(cfg.WordBytes) * 8
	l.TagBits = uint(cfg.GCTypeBits)
	l.ValBits = l.WordBits - l.TagBits
	l.IntTypeBits = l.TagBits - 1
	l.FixnumBits = l.ValBits + 1

	l.WordMax = int64(1)<<(l.WordBits-1) - 1
	l.ValMax = l.WordMax >> (l.TagBits - 1)
	if cfg.LSBTag {
		l.ValMask = -(int64(1) << l.TagBits)
	} else {
		l.ValMask = l.ValMax
	}
	l.IntMask = l.WordMax >> (l.IntTypeBits - 1)
	l.MostPositiveFixnum = l.WordMax >> l.IntTypeBits
	l.MostNegativeFixnum = -1 - l.MostPositiveFixnum

	if l.WordBits == 64 {
		l.wordMask = ^uint64(0)
	} else {
		l.wordMask = uint64(1)<<l.WordBits - 1
	}
	l.valMaskBits = uint64(l.ValMask) & l.wordMask
	l.codes, l.types = tagTables(cfg.LSBTag)
	return l, nil
}

// MustLayout is NewLayout for configurations known to be valid.
func MustLayout(cfg Config) *Layout {
	l, err := NewLayout(cfg)
	if err != nil {
		panic(fmt.Sprintf("lispobj: %v", err))
	}
	return l
}

// Config returns the configuration l was derived from.
func (l *Layout) Config() Config {
	return l.cfg
}

// LSBTag reports whether tags occupy the low-order bits.
func (l *Layout) LSBTag() bool {
	return l.cfg.LSBTag
}

// Code returns the tag code of t under l's tagging mode.
func (l *Layout) Code(t Type) uint8 {
	return l.codes[t]
}

// Sizes lists the byte sizes of the host structures under a layout.
type Sizes struct {
	Word       int
	Pointer    int
	Double     int
	FloatBox   int
	MiscHeader int
	// Slot is the size of one Object slot in the boxes this package reads.
	Slot         int
	ConsBox      int
	VectorHeader int
}

// Sizes reports the structure sizes a host built with l's configuration
// uses. Pointers are assumed to be as wide as EMACS_INT. Box slots hold a
// full Object whatever the word width, so ConsBox and VectorHeader do not
// vary with the configuration.
func (l *Layout) Sizes() Sizes {
	word := l.cfg.WordBytes
	return Sizes{
		Word:         word,
		Pointer:      word,
		Double:       8,
		FloatBox:     max(8, word),
		MiscHeader:   miscHeaderBytes,
		Slot:         slotBytes,
		ConsBox:      2 * slotBytes,
		VectorHeader: slotBytes,
	}
}

var native atomic.Pointer[Layout]

// Configure fixes the layout returned by Native. It must run before the
// first call to Native; afterwards it returns ErrConfigured.
func Configure(cfg Config) error {
	l, err := NewLayout(cfg)
	if err != nil {
		return err
	}
	if !native.CompareAndSwap(nil, l) {
		return ErrConfigured
	}
	return nil
}

// Native returns the process-wide layout, resolving it from DefaultConfig
// on first use if Configure was never called.
func Native() *Layout {
	if l := native.Load(); l != nil {
		return l
	}
	native.CompareAndSwap(nil, MustLayout(DefaultConfig()))
	return native.Load()
}
