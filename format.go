package lispobj

import (
	"strconv"
	"unsafe"

	"github.com/delaneyj/toolbelt/bytebufferpool"
)

// formatNames maps a Type to its debug label.
var formatNames = [NumTypes]string{
	TypeSymbol:     "SYMBOL",
	TypeMisc:       "MISC",
	TypeInt0:       "INT",
	TypeInt1:       "INT",
	TypeString:     "STRING",
	TypeVectorlike: "VECTOR-LIKE",
	TypeCons:       "CONS",
	TypeFloat:      "FLOAT",
}

const invalidObjectName = "INVALID-OBJECT"

// Debug renders the word at o for debugging, as
// #<CONS @ 0xADDR: VAL(0xBITS)> where ADDR is the address of the word
// itself. Words whose tag code is out of range render as INVALID-OBJECT.
// The output is for diagnostics only.
func (l *Layout) Debug(o *Object) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	l.formatToBuffer(buf, o)
	return string(buf.Bytes())
}

// AppendDebug appends the rendering of Debug to dst.
func (l *Layout) AppendDebug(dst []byte, o *Object) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	l.formatToBuffer(buf, o)
	return append(dst, buf.Bytes()...)
}

func (l *Layout) formatToBuffer(buf *bytebufferpool.ByteBuffer, o *Object) {
	name := invalidObjectName
	if code := l.tagCode(*o); code < NumTypes {
		name = formatNames[l.types[code]]
	}
	writeFormatted(buf, name, uintptr(unsafe.Pointer(o)), uint64(*o))
}

func writeFormatted(buf *bytebufferpool.ByteBuffer, name string, addr uintptr, bits uint64) {
	var scratch [16]byte
	buf.WriteString("#<")
	buf.WriteString(name)
	buf.WriteString(" @ 0x")
	buf.Write(appendUpperHex(scratch[:0], uint64(addr)))
	buf.WriteString(": VAL(0x")
	buf.Write(appendUpperHex(scratch[:0], bits))
	buf.WriteString(")>")
}

func appendUpperHex(dst []byte, v uint64) []byte {
	start := len(dst)
	dst = strconv.AppendUint(dst, v, 16)
	for i := start; i < len(dst); i++ {
		if c := dst[i]; c >= 'a' && c <= 'f' {
			dst[i] = c - 'a' + 'A'
		}
	}
	return dst
}
