package lispobj

import (
	"errors"
	"testing"
	"unsafe"
)

type namedLayout struct {
	name string
	l    *Layout
}

func testLayouts() []namedLayout {
	return []namedLayout{
		{"narrow-lsb", MustLayout(Config{WordBytes: 4, GCTypeBits: 3, LSBTag: true})},
		{"narrow-msb", MustLayout(Config{WordBytes: 4, GCTypeBits: 3, LSBTag: false})},
		{"wide-lsb", MustLayout(Config{WordBytes: 8, GCTypeBits: 3, LSBTag: true})},
		{"wide-msb", MustLayout(Config{WordBytes: 8, GCTypeBits: 3, LSBTag: false})},
	}
}

// nativeLayouts are the layouts whose words can address memory in this
// process.
func nativeLayouts() []namedLayout {
	word := int(unsafe.Sizeof(uintptr(0)))
	return []namedLayout{
		{"native-lsb", MustLayout(Config{WordBytes: word, GCTypeBits: 3, LSBTag: true})},
		{"native-msb", MustLayout(Config{WordBytes: word, GCTypeBits: 3, LSBTag: false})},
	}
}

func TestLayoutConstants(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		valBits uint
		valMax  int64
		valMask int64
		intMask int64
		mpf     int64
	}{
		{"narrow-lsb", Config{4, 3, true}, 29, 0x1FFFFFFF, -8, 0x3FFFFFFF, 536870911},
		{"narrow-msb", Config{4, 3, false}, 29, 0x1FFFFFFF, 0x1FFFFFFF, 0x3FFFFFFF, 536870911},
		{"wide-lsb", Config{8, 3, true}, 61, 0x1FFFFFFFFFFFFFFF, -8, 0x3FFFFFFFFFFFFFFF, 2305843009213693951},
		{"wide-msb", Config{8, 3, false}, 61, 0x1FFFFFFFFFFFFFFF, 0x1FFFFFFFFFFFFFFF, 0x3FFFFFFFFFFFFFFF, 2305843009213693951},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLayout(tt.cfg)
			if err != nil {
				t.Fatalf("new layout: %v", err)
			}
			if l.ValBits != tt.valBits {
				t.Fatalf("ValBits = %d, want %d", l.ValBits, tt.valBits)
			}
			if l.ValMax != tt.valMax {
				t.Fatalf("ValMax = %#x, want %#x", l.ValMax, tt.valMax)
			}
			if l.ValMask != tt.valMask {
				t.Fatalf("ValMask = %#x, want %#x", l.ValMask, tt.valMask)
			}
			if l.IntMask != tt.intMask {
				t.Fatalf("IntMask = %#x, want %#x", l.IntMask, tt.intMask)
			}
			if l.MostPositiveFixnum != tt.mpf {
				t.Fatalf("MostPositiveFixnum = %d, want %d", l.MostPositiveFixnum, tt.mpf)
			}
			if l.MostNegativeFixnum != -1-tt.mpf {
				t.Fatalf("MostNegativeFixnum = %d, want %d", l.MostNegativeFixnum, -1-tt.mpf)
			}
			if l.FixnumBits != tt.valBits+1 {
				t.Fatalf("FixnumBits = %d, want %d", l.FixnumBits, tt.valBits+1)
			}
		})
	}
}

func TestLowBitValMaskSignExtends(t *testing.T) {
	l := MustLayout(Config{WordBytes: 8, GCTypeBits: 3, LSBTag: true})
	if got := uint64(l.ValMask); got != 0xFFFFFFFFFFFFFFF8 {
		t.Fatalf("wide ValMask bits = %#x", got)
	}
	n := MustLayout(NarrowConfig())
	if got := uint64(n.ValMask) & n.wordMask; got != 0xFFFFFFF8 {
		t.Fatalf("narrow ValMask bits = %#x", got)
	}
}

func TestTagCodesSwapByMode(t *testing.T) {
	lsb := MustLayout(WideConfig())
	msb := MustLayout(Config{WordBytes: 8, GCTypeBits: 3, LSBTag: false})
	if lsb.Code(TypeInt1) != 6 || lsb.Code(TypeCons) != 3 {
		t.Fatalf("lsb codes: int1=%d cons=%d", lsb.Code(TypeInt1), lsb.Code(TypeCons))
	}
	if msb.Code(TypeInt1) != 3 || msb.Code(TypeCons) != 6 {
		t.Fatalf("msb codes: int1=%d cons=%d", msb.Code(TypeInt1), msb.Code(TypeCons))
	}
	for _, nl := range testLayouts() {
		seen := make(map[uint8]Type)
		for ty := Type(0); ty < NumTypes; ty++ {
			c := nl.l.Code(ty)
			if prev, dup := seen[c]; dup {
				t.Fatalf("%s: code %d used by %s and %s", nl.name, c, prev, ty)
			}
			seen[c] = ty
		}
	}
}

func TestInvalidConfigs(t *testing.T) {
	bad := []Config{
		{WordBytes: 2, GCTypeBits: 3, LSBTag: true},
		{WordBytes: 16, GCTypeBits: 3, LSBTag: true},
		{WordBytes: 8, GCTypeBits: 4, LSBTag: true},
		{WordBytes: 8, GCTypeBits: 2, LSBTag: false},
	}
	for _, cfg := range bad {
		if _, err := NewLayout(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestSizes(t *testing.T) {
	narrow := MustLayout(NarrowConfig()).Sizes()
	wide := MustLayout(WideConfig()).Sizes()
	if narrow.MiscHeader != 4 || wide.MiscHeader != 4 {
		t.Fatalf("misc header sizes %d/%d, want 4", narrow.MiscHeader, wide.MiscHeader)
	}
	if narrow.FloatBox != max(8, 4) {
		t.Fatalf("narrow float box = %d, want 8", narrow.FloatBox)
	}
	if wide.FloatBox != max(8, 8) {
		t.Fatalf("wide float box = %d, want 8", wide.FloatBox)
	}
	if narrow.ConsBox != 16 || wide.ConsBox != 16 {
		t.Fatalf("cons sizes %d/%d, want 16", narrow.ConsBox, wide.ConsBox)
	}
	if narrow.VectorHeader != 8 || wide.VectorHeader != 8 {
		t.Fatalf("vector header sizes %d/%d, want 8", narrow.VectorHeader, wide.VectorHeader)
	}
}

func TestNativeSizesMatchStructs(t *testing.T) {
	s := Native().Sizes()
	if got := int(unsafe.Sizeof(FloatBox{})); got != s.FloatBox {
		t.Fatalf("sizeof(FloatBox) = %d, layout says %d", got, s.FloatBox)
	}
	if got := int(unsafe.Sizeof(MiscHeader{})); got != s.MiscHeader {
		t.Fatalf("sizeof(MiscHeader) = %d, layout says %d", got, s.MiscHeader)
	}
	if got := int(unsafe.Sizeof(ConsBox{})); got != s.ConsBox {
		t.Fatalf("sizeof(ConsBox) = %d, layout says %d", got, s.ConsBox)
	}
	if got := int(unsafe.Sizeof(VectorlikeHeader{})); got != s.VectorHeader {
		t.Fatalf("sizeof(VectorlikeHeader) = %d, layout says %d", got, s.VectorHeader)
	}
	if got := int(unsafe.Sizeof(Object(0))); got != s.Slot {
		t.Fatalf("sizeof(Object) = %d, layout says %d", got, s.Slot)
	}
	if got := int(unsafe.Sizeof(uintptr(0))); got != s.Pointer {
		t.Fatalf("pointer size = %d, layout says %d", got, s.Pointer)
	}
}

func TestConfigureAfterUse(t *testing.T) {
	l := Native()
	if l == nil {
		t.Fatalf("native layout is nil")
	}
	if err := Configure(DefaultConfig()); !errors.Is(err, ErrConfigured) {
		t.Fatalf("configure after use: got %v, want ErrConfigured", err)
	}
	if Native() != l {
		t.Fatalf("native layout changed after a rejected Configure")
	}
	if err := Configure(Config{WordBytes: 3}); err == nil || errors.Is(err, ErrConfigured) {
		t.Fatalf("invalid config should fail validation, got %v", err)
	}
}
