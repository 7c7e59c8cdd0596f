// Package main builds liblispobj, the C entry points for the list
// primitives and word helpers. Build with -buildmode=c-shared.
//
// Words cross the boundary as intptr_t in the native layout. A Lisp signal
// cannot unwind through C frames, so a signalling call returns nil and
// leaves the error pending until lispobj_signal_pending collects it.
package main

/*
#include <stdint.h>
*/
import "C"

import "unsafe"

//export Fcar
func Fcar(list C.intptr_t) C.intptr_t {
	return C.intptr_t(car(int64(list)))
}

//export Fcdr
func Fcdr(list C.intptr_t) C.intptr_t {
	return C.intptr_t(cdr(int64(list)))
}

//export lispobj_type_of
func lispobj_type_of(obj C.intptr_t) C.int {
	return C.int(typeCode(int64(obj)))
}

// lispobj_pack and lispobj_unpack report success through ok, which may be
// NULL when the caller does not need it.
//
//export lispobj_pack
func lispobj_pack(n C.int64_t, ok *C.int) C.intptr_t {
	w, packed := pack(int64(n))
	setFlag((*int32)(unsafe.Pointer(ok)), packed)
	return C.intptr_t(w)
}

//export lispobj_unpack
func lispobj_unpack(obj C.intptr_t, ok *C.int) C.int64_t {
	n, unpacked := unpack(int64(obj))
	setFlag((*int32)(unsafe.Pointer(ok)), unpacked)
	return C.int64_t(n)
}

//export lispobj_signal_pending
func lispobj_signal_pending(value *C.intptr_t) C.int {
	v, pending := takeSignal()
	if pending && value != nil {
		*value = C.intptr_t(v)
	}
	return cBool(pending)
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func main() {}
