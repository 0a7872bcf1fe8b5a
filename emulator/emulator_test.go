package emulator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jubecker/after8/chip8"
)

func newHeadless(t *testing.T) *Emulator {
	emu, err := New(Options{Headless: true})
	assert.NoError(t, err)
	return emu
}

func TestNew_Headless(t *testing.T) {
	assert := assert.New(t)

	emu := newHeadless(t)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Screen)
	assert.NotNil(emu.Logger)
	assert.Nil(emu.Cpu.Sound, "no beeper on the void sink")
	assert.NoError(emu.Close())
}

func TestNew_ConsoleBeeper(t *testing.T) {
	assert := assert.New(t)

	emu, err := New(Options{})
	assert.NoError(err)
	assert.NotNil(emu.Cpu.Sound, "console sink rings the bell")
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "loop.ch8")
	assert.NoError(os.WriteFile(path, []byte{0x12, 0x00}, 0o644))

	emu := newHeadless(t)
	assert.NoError(emu.LoadFile(path))
	assert.NoError(emu.Cpu.Tick())
	assert.Equal(uint16(chip8.START_ADDR), emu.Cpu.PC)
}

func TestLoadFile_Missing(t *testing.T) {
	assert := assert.New(t)

	emu := newHeadless(t)
	err := emu.LoadFile(filepath.Join(t.TempDir(), "nope.ch8"))
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestLoadFile_TooLarge(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "big.ch8")
	oversize := make([]byte, chip8.RAM_SIZE)
	assert.NoError(os.WriteFile(path, oversize, 0o644))

	emu := newHeadless(t)
	assert.ErrorIs(emu.LoadFile(path), chip8.ErrProgramTooLarge)
}

func TestRun_ContextCancel(t *testing.T) {
	assert := assert.New(t)

	emu := newHeadless(t)
	assert.NoError(emu.Cpu.Load([]byte{0x12, 0x00}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.ErrorIs(emu.Run(ctx), context.DeadlineExceeded)
}

func TestRun_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := newHeadless(t)
	assert.NoError(emu.Cpu.Load([]byte{0xFF, 0xFF}))

	err := emu.Run(context.Background())
	assert.ErrorIs(err, chip8.ErrUnsupportedOpcode)

	var rerr *ErrRuntime
	assert.True(errors.As(err, &rerr))
	assert.Equal(0, rerr.Frame)
	assert.Equal(uint16(chip8.START_ADDR+2), rerr.PC)
}

func TestPumpKeys_HoldAndDecay(t *testing.T) {
	assert := assert.New(t)

	emu := newHeadless(t)
	emu.keyCh <- 0x5

	emu.pumpKeys()
	assert.True(emu.Cpu.Key(0x5))

	// The press decays after a few frames without a repeat.
	for range KEY_HOLD_FRAMES {
		emu.pumpKeys()
	}
	assert.False(emu.Cpu.Key(0x5))
}

func TestPumpKeys_RepeatRefreshesHold(t *testing.T) {
	assert := assert.New(t)

	emu := newHeadless(t)
	emu.keyCh <- 0x5
	emu.pumpKeys()

	emu.pumpKeys()
	emu.keyCh <- 0x5
	emu.pumpKeys()

	// The refreshed press survives the original hold window.
	for range KEY_HOLD_FRAMES - 2 {
		emu.pumpKeys()
	}
	assert.True(emu.Cpu.Key(0x5))
}
