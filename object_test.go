package lispobj

import (
	"errors"
	"testing"
	"unsafe"
)

func TestNilIsSymbol(t *testing.T) {
	for _, nl := range testLayouts() {
		if got := nl.l.TypeOf(Nil); got != TypeSymbol {
			t.Fatalf("%s: TypeOf(nil) = %s", nl.name, got)
		}
		if !nl.l.IsSymbol(Nil) {
			t.Fatalf("%s: nil is not a symbol", nl.name)
		}
		if _, ok := nl.l.ExtractNumeric(Nil); ok {
			t.Fatalf("%s: nil has a numeric value", nl.name)
		}
	}
}

func TestConsCodeClassifiesAsCons(t *testing.T) {
	tests := []struct {
		name string
		l    *Layout
		w    Object
		addr uintptr
	}{
		{"wide-lsb", MustLayout(WideConfig()), Object(0x1000 | 3), 0x1000},
		{"narrow-lsb", MustLayout(NarrowConfig()), Object(0x1000 | 3), 0x1000},
		{"wide-msb", MustLayout(Config{8, 3, false}), Object(6<<61 | 0x1000), 0x1000},
		{"narrow-msb", MustLayout(Config{4, 3, false}), Object(6<<29 | 0x1000), 0x1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.l.TypeOf(tt.w); got != TypeCons {
				t.Fatalf("TypeOf(%#x) = %s, want cons", uint64(tt.w), got)
			}
			if !tt.l.IsCons(tt.w) {
				t.Fatalf("IsCons(%#x) = false", uint64(tt.w))
			}
			if got := tt.l.UntaggedPointer(tt.w); got != tt.addr {
				t.Fatalf("UntaggedPointer = %#x, want %#x", got, tt.addr)
			}
		})
	}
}

func TestTypeOfEveryCode(t *testing.T) {
	for _, nl := range testLayouts() {
		l := nl.l
		for ty := Type(0); ty < NumTypes; ty++ {
			code := uint64(l.Code(ty))
			var w Object
			if l.LSBTag() {
				w = Object(0x40 | code)
			} else {
				w = Object(code<<l.ValBits | 0x40)
			}
			if got := l.TypeOf(w); got != ty {
				t.Fatalf("%s: TypeOf(code %d) = %s, want %s", nl.name, code, got, ty)
			}
		}
	}
}

func TestWrapRaw(t *testing.T) {
	narrow := MustLayout(NarrowConfig())
	w := narrow.Wrap(-8)
	if uint64(w) != 0xFFFFFFF8 {
		t.Fatalf("narrow Wrap(-8) = %#x", uint64(w))
	}
	if got := narrow.Raw(w); got != -8 {
		t.Fatalf("narrow Raw = %d, want -8", got)
	}
	wide := MustLayout(WideConfig())
	if got := wide.Raw(wide.Wrap(-8)); got != -8 {
		t.Fatalf("wide Raw = %d, want -8", got)
	}
	if got := wide.Raw(Nil); got != 0 {
		t.Fatalf("Raw(nil) = %d", got)
	}
}

func TestMakePointer(t *testing.T) {
	for _, nl := range testLayouts() {
		l := nl.l
		for _, ty := range []Type{TypeMisc, TypeString, TypeVectorlike, TypeCons, TypeFloat} {
			w, err := l.MakePointer(ty, 0x2000)
			if err != nil {
				t.Fatalf("%s: MakePointer(%s): %v", nl.name, ty, err)
			}
			if got := l.TypeOf(w); got != ty {
				t.Fatalf("%s: TypeOf(MakePointer(%s)) = %s", nl.name, ty, got)
			}
			if got := l.UntaggedPointer(w); got != 0x2000 {
				t.Fatalf("%s: UntaggedPointer = %#x", nl.name, got)
			}
		}
		if _, err := l.MakePointer(TypeInt0, 0x2000); err == nil {
			t.Fatalf("%s: fixnum pointer accepted", nl.name)
		}
	}
	lsb := MustLayout(WideConfig())
	if _, err := lsb.MakePointer(TypeCons, 0x2004); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("misaligned address: err = %v", err)
	}
	msb := MustLayout(Config{4, 3, false})
	if _, err := msb.MakePointer(TypeCons, 0x20000000); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("address above payload: err = %v", err)
	}
}

func TestPointerBearing(t *testing.T) {
	want := map[Type]bool{
		TypeSymbol: false, TypeMisc: true, TypeInt0: false, TypeInt1: false,
		TypeString: true, TypeVectorlike: true, TypeCons: true, TypeFloat: true,
	}
	for ty, pb := range want {
		if ty.PointerBearing() != pb {
			t.Fatalf("%s.PointerBearing() = %v", ty, !pb)
		}
	}
	if Type(9).String() != "invalid" {
		t.Fatalf("Type(9).String() = %q", Type(9).String())
	}
}

func TestAlignedWords(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 64} {
		words := AlignedWords(n)
		if len(words) != n {
			t.Fatalf("len(AlignedWords(%d)) = %d", n, len(words))
		}
		if n == 0 {
			continue
		}
		if addr := uintptr(unsafe.Pointer(&words[0])); addr%BoxAlign != 0 {
			t.Fatalf("AlignedWords(%d) starts at %#x", n, addr)
		}
		for i, w := range words {
			if w != Nil {
				t.Fatalf("AlignedWords(%d)[%d] = %#x", n, i, uint64(w))
			}
		}
		for _, nl := range nativeLayouts() {
			if _, err := nl.l.MakePointer(TypeVectorlike, uintptr(unsafe.Pointer(&words[0]))); err != nil {
				t.Fatalf("%s: MakePointer(AlignedWords(%d)): %v", nl.name, n, err)
			}
		}
	}
}
