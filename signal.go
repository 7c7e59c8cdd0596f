package lispobj

import (
	"errors"
	"fmt"
)

// ErrWrongType is matched by every WrongTypeError.
var ErrWrongType = errors.New("wrong-type-argument")

// WrongTypeError reports a value that failed a type predicate, such as a
// non-list passed to cdr.
type WrongTypeError struct {
	// Predicate names the test the value failed, e.g. "listp".
	Predicate string
	Value     Object
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("wrong-type-argument: %s, VAL(%#x)", e.Predicate, uint64(e.Value))
}

func (e *WrongTypeError) Unwrap() error {
	return ErrWrongType
}

// signal is the panic value of a non-local exit raised by Signal.
type signal struct {
	err error
}

// Signal aborts the current evaluation with err. Control resumes at the
// nearest enclosing Protect, which returns err.
func Signal(err error) {
	panic(signal{err: err})
}

// WrongTypeArgument signals a WrongTypeError. It never returns; the result
// type lets callers write it in tail position.
func WrongTypeArgument(predicate string, value Object) Object {
	Signal(&WrongTypeError{Predicate: predicate, Value: value})
	return Nil
}

// Protect runs fn and returns the error of any signal it raises. Panics
// that are not signals propagate unchanged.
func Protect(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s, ok := r.(signal)
		if !ok {
			panic(r)
		}
		err = s.err
	}()
	fn()
	return nil
}
