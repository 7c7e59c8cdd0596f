package lispobj

import (
	"errors"
	"fmt"
)

// ErrFixnumRange is returned when an integer does not fit in a fixnum.
var ErrFixnumRange = errors.New("integer out of fixnum range")

// FixnumInRange reports whether n can be packed under l.
func (l *Layout) FixnumInRange(n int64) bool {
	return n >= l.MostNegativeFixnum && n <= l.MostPositiveFixnum
}

// Pack encodes n as a fixnum. n must be within
// [MostNegativeFixnum, MostPositiveFixnum].
func (l *Layout) Pack(n int64) Object {
	int0 := int64(l.codes[TypeInt0])
	if l.cfg.LSBTag {
		return l.Wrap(n<<l.IntTypeBits + int0)
	}
	return l.Wrap(n&l.IntMask + int0<<l.ValBits)
}

// PackChecked is Pack with the range precondition checked.
func (l *Layout) PackChecked(n int64) (Object, error) {
	if !l.FixnumInRange(n) {
		return Nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrFixnumRange, n, l.MostNegativeFixnum, l.MostPositiveFixnum)
	}
	return l.Pack(n), nil
}

// IsInteger reports whether o is a fixnum. Int0 and Int1 differ in one bit
// that belongs to the payload, so one masked compare accepts both.
func (l *Layout) IsInteger(o Object) bool {
	int0 := uint64(l.codes[TypeInt0])
	int1 := uint64(l.codes[TypeInt1])
	return l.tagCode(o)&(int0|^int1) == int0
}

// Unpack decodes a fixnum. ok is false when o is not an integer.
func (l *Layout) Unpack(o Object) (n int64, ok bool) {
	if !l.IsInteger(o) {
		return 0, false
	}
	if l.cfg.LSBTag {
		return l.Raw(o) >> l.IntTypeBits, true
	}
	shift := 64 - l.FixnumBits
	payload := uint64(o) & uint64(l.IntMask)
	return int64(payload<<shift) >> shift, true
}

// FromFixnum packs n under the native layout. It panics when n is out of
// range.
func FromFixnum(n int64) Object {
	o, err := Native().PackChecked(n)
	if err != nil {
		panic(fmt.Sprintf("lispobj: %v", err))
	}
	return o
}

// Fixnum unpacks o under the native layout.
func (o Object) Fixnum() (int64, bool) {
	return Native().Unpack(o)
}
