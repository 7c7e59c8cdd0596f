package main

import (
	"errors"
	"sync"

	"github.com/starfederation/lispobj"
	"github.com/starfederation/lispobj/lists"
)

var (
	pendingMu sync.Mutex
	pending   *lispobj.WrongTypeError
)

func ops() lists.Ops {
	return lists.New(lispobj.Native())
}

// guard runs fn and converts a signal into a pending error and a nil result.
func guard(fn func() lispobj.Object) int64 {
	l := lispobj.Native()
	result := lispobj.Nil
	err := lispobj.Protect(func() { result = fn() })
	if err != nil {
		var wt *lispobj.WrongTypeError
		if !errors.As(err, &wt) {
			wt = &lispobj.WrongTypeError{Predicate: err.Error(), Value: lispobj.Nil}
		}
		pendingMu.Lock()
		pending = wt
		pendingMu.Unlock()
		return l.Raw(lispobj.Nil)
	}
	return l.Raw(result)
}

func car(list int64) int64 {
	return guard(func() lispobj.Object { return ops().Car(lispobj.Native().Wrap(list)) })
}

func cdr(list int64) int64 {
	return guard(func() lispobj.Object { return ops().Cdr(lispobj.Native().Wrap(list)) })
}

func typeCode(obj int64) uint8 {
	l := lispobj.Native()
	return l.Code(l.TypeOf(l.Wrap(obj)))
}

func pack(n int64) (int64, bool) {
	l := lispobj.Native()
	w, err := l.PackChecked(n)
	if err != nil {
		return l.Raw(lispobj.Nil), false
	}
	return l.Raw(w), true
}

func unpack(obj int64) (int64, bool) {
	l := lispobj.Native()
	return l.Unpack(l.Wrap(obj))
}

// setFlag stores 1 or 0 through an optional C int out-parameter.
func setFlag(dst *int32, v bool) {
	if dst == nil {
		return
	}
	if v {
		*dst = 1
	} else {
		*dst = 0
	}
}

// takeSignal returns and clears the pending signal's offending value.
func takeSignal() (int64, bool) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	if pending == nil {
		return 0, false
	}
	v := lispobj.Native().Raw(pending.Value)
	pending = nil
	return v, true
}
