// Package emulator wires the interpreter to a display sink, keypad
// input and wall-clock frame pacing.
package emulator

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/jubecker/after8/chip8"
	"github.com/jubecker/after8/display"
)

const (
	FRAME_RATE      = 60 // Frames per second of wall clock.
	KEY_HOLD_FRAMES = 6  // Frames a terminal key press stays down.
)

// Options selects the display sink and verbosity of a machine.
type Options struct {
	Verbose  bool // Debug logging and instruction traces.
	Headless bool // No display output.
	Terminal bool // Interactive terminal sink with keypad input.
	Window   bool // Windowed sink with keypad input.
}

// Emulator is a machine instance: one interpreter, one display
// surface, one render sink, constructed once per run.
type Emulator struct {
	Cpu    *chip8.Cpu
	Screen *display.Screen
	Logger *log.Logger

	terminal *display.Terminal
	window   *display.Window

	// Terminal key presses cross from the event goroutine into the
	// frame loop through this channel; the keypad itself is only
	// ever touched by the loop.
	keyCh   chan byte
	keyHold [chip8.NUM_KEYS]int
}

// New builds a machine from options. The render sink is fixed for the
// emulator's lifetime.
func New(opts Options) (*Emulator, error) {
	emu := &Emulator{
		Logger: NewLogger(opts.Verbose),
		keyCh:  make(chan byte, 64),
	}

	var renderer display.Renderer
	switch {
	case opts.Headless:
		renderer = display.Void{}
	case opts.Window:
		emu.window = display.NewWindow()
		renderer = emu.window
	case opts.Terminal:
		term, err := display.NewTerminal()
		if err != nil {
			return nil, fmt.Errorf("terminal: %w", err)
		}
		emu.terminal = term
		renderer = term
	default:
		renderer = display.NewConsole(nil)
	}

	emu.Screen = display.NewScreen(renderer)
	emu.Cpu = chip8.New(emu.Screen, emu.Logger)
	emu.Cpu.Verbose = opts.Verbose

	if beeper, ok := renderer.(display.Beeper); ok {
		emu.Cpu.Sound = beeper.Beep
	}

	return emu, nil
}

// LoadFile reads a raw program image and loads it at the origin
// address. Unreadable or oversize images fail before any
// interpretation begins.
func (emu *Emulator) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	if err := emu.Cpu.Load(data); err != nil {
		return fmt.Errorf("load rom %v: %w", path, err)
	}
	emu.Logger.Debug("rom loaded",
		log.String("file", path),
		log.String("bytes", strconv.Itoa(len(data))),
	)

	return nil
}

// Close releases the display sink.
func (emu *Emulator) Close() error {
	if emu.terminal != nil {
		emu.terminal.Stop()
	}

	return nil
}

// Run drives the machine until the context is cancelled or a fatal
// interpretation error occurs. Frames are paced at the display
// refresh rate; cancellation is reported as the context's error.
func (emu *Emulator) Run(ctx context.Context) error {
	if emu.window != nil {
		return emu.runWindow(ctx)
	}

	if emu.terminal != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		emu.terminal.OnQuit = cancel
		emu.terminal.OnKey = func(k byte) {
			select {
			case emu.keyCh <- k:
			default:
			}
		}
		emu.terminal.Start()
		defer emu.terminal.Stop()
	}

	ticker := time.NewTicker(time.Second / FRAME_RATE)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		emu.pumpKeys()
		if err := emu.Cpu.Frame(); err != nil {
			return &ErrRuntime{Frame: frame, PC: emu.Cpu.PC, Err: err}
		}
	}
}

// runWindow hands the loop to the windowed sink, which advances the
// interpreter from its own update cycle. A closed window ends the run
// without error.
func (emu *Emulator) runWindow(ctx context.Context) error {
	frame := 0
	emu.window.Keys = emu.Cpu.SetKey
	emu.window.Step = func() error {
		frame++
		if err := emu.Cpu.Frame(); err != nil {
			return &ErrRuntime{Frame: frame, PC: emu.Cpu.PC, Err: err}
		}
		return nil
	}

	if err := emu.window.Run(ctx); err != nil {
		return err
	}

	return ctx.Err()
}

// pumpKeys applies queued terminal key presses to the keypad at a
// frame boundary. Terminals report no key-up events, so a press is
// held for a few frames and then released.
func (emu *Emulator) pumpKeys() {
	for k := range emu.keyHold {
		if emu.keyHold[k] > 0 {
			emu.keyHold[k]--
			if emu.keyHold[k] == 0 {
				emu.Cpu.SetKey(byte(k), false)
			}
		}
	}

	for {
		select {
		case k := <-emu.keyCh:
			emu.Cpu.SetKey(k, true)
			emu.keyHold[k%chip8.NUM_KEYS] = KEY_HOLD_FRAMES
		default:
			return
		}
	}
}
