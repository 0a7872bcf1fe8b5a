// Package chip8 implements the instruction interpreter: the register,
// memory, stack and timer state machine plus its fetch-decode-execute
// cycle and frame pacing.
package chip8

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"

	"github.com/jubecker/after8/display"
)

const (
	RAM_SIZE        = 4096  // Addressable bytes; covers the full 12-bit address range.
	START_ADDR      = 0x200 // Program origin address.
	NUM_REGS        = 16    // General purpose registers V0-VF.
	NUM_KEYS        = 16    // Hex keypad keys.
	TICKS_PER_FRAME = 10    // Instructions executed per rendered frame.
)

// Cpu is the interpreter state machine. It exclusively owns its
// registers, memory, stack, timers, keypad and display surface; no
// locking is needed as long as external collaborators feed keypad
// updates from the goroutine driving the frame loop.
type Cpu struct {
	Verbose bool // Set to enable instruction trace logging.

	V  [NUM_REGS]uint8 // Register file; VF doubles as the flag register.
	PC uint16          // Program counter.
	I  uint16          // Index register.

	DelayTimer uint8
	SoundTimer uint8

	Stack  Stack
	Screen *display.Screen

	// Rand yields the random bytes consumed by the random
	// instruction. Replaceable for deterministic tests.
	Rand func() byte

	// Sound is invoked once each time the sound timer expires.
	// Fire and forget; may be nil.
	Sound func()

	ram    [RAM_SIZE]byte
	keys   [NUM_KEYS]bool
	logger *log.Logger
}

// New creates an interpreter with zeroed state, the glyph table
// preloaded at address 0 and the program counter at the origin
// address. The interpreter takes ownership of the screen.
func New(screen *display.Screen, logger *log.Logger) (cpu *Cpu) {
	cpu = &Cpu{
		PC:     START_ADDR,
		Screen: screen,
		Rand:   func() byte { return byte(rand.Uint32()) },
		logger: logger,
	}
	copy(cpu.ram[:], fontSet[:])

	return
}

// Load copies a raw program image into memory at the origin address.
// Images larger than the remaining memory are rejected, never
// truncated.
func (cpu *Cpu) Load(rom []byte) error {
	if len(rom) > RAM_SIZE-START_ADDR {
		return fmt.Errorf("%d bytes: %w", len(rom), ErrProgramTooLarge)
	}
	copy(cpu.ram[START_ADDR:], rom)

	return nil
}

// SetKey updates one keypad flag. The index is taken modulo the
// keypad size.
func (cpu *Cpu) SetKey(k byte, down bool) {
	cpu.keys[k%NUM_KEYS] = down
}

// Key reports whether the keypad key addressed by the low nibble of k
// is pressed.
func (cpu *Cpu) Key(k byte) bool {
	return cpu.keys[k&0xF]
}

// ramWindow returns the n bytes of memory starting at addr, or an
// address fault when the range leaves the addressable space.
func (cpu *Cpu) ramWindow(addr uint16, n int) ([]byte, error) {
	if int(addr)+n > RAM_SIZE {
		return nil, ErrAddress(addr)
	}

	return cpu.ram[addr : int(addr)+n], nil
}

// Tick fetches the big-endian instruction word at the program
// counter, advances the counter by 2 and dispatches. Control flow
// instructions therefore operate on the already-advanced counter:
// jumps assign absolutely, skips add 2 more, calls push the address
// of the next instruction.
func (cpu *Cpu) Tick() error {
	word, err := cpu.ramWindow(cpu.PC, 2)
	if err != nil {
		return err
	}
	w := binary.BigEndian.Uint16(word)
	if cpu.Verbose {
		cpu.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("%04X", cpu.PC)),
			log.String("op", fmt.Sprintf("%04X", w)),
			log.String("ins", Mnemonic(w)),
		)
	}
	cpu.PC += 2

	return cpu.dispatch(w)
}

// Frame executes one rendering cycle: a fixed number of instruction
// ticks, one render, then one decrement of each timer. The timers
// count frames, not instructions.
func (cpu *Cpu) Frame() error {
	for range TICKS_PER_FRAME {
		if err := cpu.Tick(); err != nil {
			return err
		}
	}
	cpu.Screen.Render()
	cpu.tickTimers()

	return nil
}

func (cpu *Cpu) tickTimers() {
	if cpu.DelayTimer > 0 {
		cpu.DelayTimer--
	}
	if cpu.SoundTimer > 0 {
		if cpu.SoundTimer == 1 && cpu.Sound != nil {
			cpu.Sound()
		}
		cpu.SoundTimer--
	}
}

// Run executes frames until the context is cancelled or a fatal
// interpretation error occurs.
func (cpu *Cpu) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := cpu.Frame(); err != nil {
			return err
		}
	}
}

// RunFrames executes exactly n frames.
func (cpu *Cpu) RunFrames(n int) error {
	for range n {
		if err := cpu.Frame(); err != nil {
			return err
		}
	}

	return nil
}
