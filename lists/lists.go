// Package lists implements the list primitives over tagged cons words.
//
// Primitives follow the evaluator's conventions: a non-list argument raises
// wrong-type-argument through lispobj.Signal instead of returning an error,
// so callers run them under lispobj.Protect.
package lists

import "github.com/starfederation/lispobj"

// Ops binds the primitives to a layout.
type Ops struct {
	L *lispobj.Layout
}

// New returns primitives for words built under l.
func New(l *lispobj.Layout) Ops {
	return Ops{L: l}
}

func (o Ops) Consp(x lispobj.Object) bool {
	return o.L.IsCons(x)
}

func (o Ops) Nilp(x lispobj.Object) bool {
	return x == lispobj.Nil
}

// Listp reports whether x is a cons or nil.
func (o Ops) Listp(x lispobj.Object) bool {
	return o.Consp(x) || o.Nilp(x)
}

// Car returns the car of a cons, nil for nil, and signals otherwise.
func (o Ops) Car(x lispobj.Object) lispobj.Object {
	switch {
	case o.Consp(x):
		return o.L.Cons(x).Car
	case o.Nilp(x):
		return lispobj.Nil
	default:
		return lispobj.WrongTypeArgument("listp", x)
	}
}

// Cdr returns the cdr of a cons, nil for nil, and signals otherwise.
func (o Ops) Cdr(x lispobj.Object) lispobj.Object {
	switch {
	case o.Consp(x):
		return o.L.Cons(x).Cdr
	case o.Nilp(x):
		return lispobj.Nil
	default:
		return lispobj.WrongTypeArgument("listp", x)
	}
}

// CarSafe is Car returning nil for any non-cons.
func (o Ops) CarSafe(x lispobj.Object) lispobj.Object {
	if o.Consp(x) {
		return o.L.Cons(x).Car
	}
	return lispobj.Nil
}

// CdrSafe is Cdr returning nil for any non-cons.
func (o Ops) CdrSafe(x lispobj.Object) lispobj.Object {
	if o.Consp(x) {
		return o.L.Cons(x).Cdr
	}
	return lispobj.Nil
}

// Nthcdr takes cdr n times. A dotted tail reached early signals.
func (o Ops) Nthcdr(n int, list lispobj.Object) lispobj.Object {
	for ; n > 0 && !o.Nilp(list); n-- {
		list = o.Cdr(list)
	}
	return list
}

// Length counts the conses of a proper list. A dotted list signals with the
// offending tail.
func (o Ops) Length(list lispobj.Object) int {
	n := 0
	for o.Consp(list) {
		n++
		list = o.L.Cons(list).Cdr
	}
	if !o.Nilp(list) {
		lispobj.WrongTypeArgument("listp", list)
	}
	return n
}

// Car is Ops.Car under the native layout.
func Car(x lispobj.Object) lispobj.Object {
	return New(lispobj.Native()).Car(x)
}

// Cdr is Ops.Cdr under the native layout.
func Cdr(x lispobj.Object) lispobj.Object {
	return New(lispobj.Native()).Cdr(x)
}
