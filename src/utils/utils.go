package utils

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mediavault/mediavault/src/oops"
)

// Returns the provided value, or a default value if the input was zero.
func OrDefault[T comparable](v T, def T) T {
	var zero T
	if v == zero {
		return def
	} else {
		return v
	}
}

// Panics if the provided error is non-nil. Typed nil pointers count as nil.
func Must[E error](err E) {
	if !isNilError(err) {
		panic(err)
	}
}

func Must1[T any, E error](v T, err E) T {
	Must(err)
	return v
}

func Must2[T1 any, T2 any, E error](v1 T1, v2 T2, err E) (T1, T2) {
	Must(err)
	return v1, v2
}

func isNilError[E error](err E) bool {
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

/*
Recover a panic and convert it to a returned error. Call it like so:

	func MyFunc() (err error) {
		defer utils.RecoverPanicAsError(&err)
	}

If an error was already set, the result will wrap both it and the panicked
error so that neither chain is lost.
*/
func RecoverPanicAsError(err *error) {
	if r := recover(); r != nil {
		var recoveredErr error
		if rerr, ok := r.(error); ok {
			recoveredErr = rerr
		} else {
			recoveredErr = fmt.Errorf("panic with value: %v", r)
		}
		panicErr := oops.New(recoveredErr, "panic recovered as error")
		if *err != nil {
			*err = errors.Join(*err, panicErr)
		} else {
			*err = panicErr
		}
	}
}

var ErrSleepInterrupted = errors.New("sleep interrupted by context cancellation")

func SleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ErrSleepInterrupted
	case <-time.After(d):
		return nil
	}
}
