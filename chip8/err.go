package chip8

import (
	"errors"

	"github.com/jubecker/after8/translate"
)

var f = translate.From

var (
	// Interpretation errors. All of them are fatal to the running
	// program; none is retried.
	ErrUnsupportedOpcode = errors.New(f("unsupported opcode"))
	ErrNotImplemented    = errors.New(f("instruction not implemented"))
	ErrStackOverflow     = errors.New(f("call stack overflow"))
	ErrStackUnderflow    = errors.New(f("call stack underflow"))
	ErrProgramTooLarge   = errors.New(f("program image too large"))
)

// ErrOpcode reports an instruction word whose nibble pattern matches
// no defined instruction. It unwraps to ErrUnsupportedOpcode so
// callers can tell malformed programs from missing features.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04X %v", uint16(eo), Mnemonic(uint16(eo)))
}

func (eo ErrOpcode) Unwrap() error {
	return ErrUnsupportedOpcode
}

// ErrAddress reports a memory access outside the addressable space.
type ErrAddress uint16

func (ea ErrAddress) Error() string {
	return f("address 0x%04X out of range", uint16(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}
