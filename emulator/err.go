package emulator

import (
	"github.com/jubecker/after8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Frame int
	PC    uint16
	Err   error
}

func (err *ErrRuntime) Error() string {
	return f("frame %d pc 0x%04X %v", err.Frame, err.PC, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
