package lispobj

// Type is the classification carried in a word's tag bits.
//
// The numeric value of a Type is an identity, not a tag code: Int1 and Cons
// trade codes between tagging modes, so Layout.Code gives the bits.
type Type uint8

const (
	// TypeSymbol words index a symbol. Nil is the symbol with payload 0.
	TypeSymbol Type = iota
	// TypeMisc words point to a box whose first field is a MiscType.
	TypeMisc
	// TypeInt0 and TypeInt1 words are fixnums. Two codes give fixnums one
	// more payload bit than the other types.
	TypeInt0
	TypeInt1
	// TypeString words point to a StringBox.
	TypeString
	// TypeVectorlike words point to a VectorlikeHeader.
	TypeVectorlike
	// TypeCons words point to a ConsBox.
	TypeCons
	// TypeFloat words point to a FloatBox.
	TypeFloat
)

// NumTypes is the number of tag codes a three-bit tag can hold.
const NumTypes = 8

const (
	codeSymbol     uint8 = 0
	codeMisc       uint8 = 1
	codeInt0       uint8 = 2
	codeString     uint8 = 4
	codeVectorlike uint8 = 5
	codeFloat      uint8 = 7

	// Low-order tags keep fixnums at xx10 so a shift recovers them.
	codeInt1LSB uint8 = 6
	codeConsLSB uint8 = 3
	codeInt1MSB uint8 = 3
	codeConsMSB uint8 = 6
)

var typeNames = [NumTypes]string{
	TypeSymbol:     "symbol",
	TypeMisc:       "misc",
	TypeInt0:       "int0",
	TypeInt1:       "int1",
	TypeString:     "string",
	TypeVectorlike: "vectorlike",
	TypeCons:       "cons",
	TypeFloat:      "float",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "invalid"
}

// IsInteger reports whether t is one of the two fixnum types.
func (t Type) IsInteger() bool {
	return t == TypeInt0 || t == TypeInt1
}

// PointerBearing reports whether words of type t carry a box address.
func (t Type) PointerBearing() bool {
	switch t {
	case TypeMisc, TypeString, TypeVectorlike, TypeCons, TypeFloat:
		return true
	default:
		return false
	}
}

// tagTables returns the type-to-code and code-to-type tables for a mode.
func tagTables(lsb bool) (codes [NumTypes]uint8, types [NumTypes]Type) {
	codes = [NumTypes]uint8{
		TypeSymbol:     codeSymbol,
		TypeMisc:       codeMisc,
		TypeInt0:       codeInt0,
		TypeString:     codeString,
		TypeVectorlike: codeVectorlike,
		TypeFloat:      codeFloat,
	}
	if lsb {
		codes[TypeInt1] = codeInt1LSB
		codes[TypeCons] = codeConsLSB
	} else {
		codes[TypeInt1] = codeInt1MSB
		codes[TypeCons] = codeConsMSB
	}
	for t, c := range codes {
		types[c] = Type(t)
	}
	return codes, types
}
