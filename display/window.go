package display

import (
	"context"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

const WINDOW_SCALE = 10 // Host pixels per framebuffer pixel.

// Keypad rows mapped onto the keyboard, same layout as keymap.go.
var windowKeys = map[ebiten.Key]byte{
	ebiten.KeyDigit1: 0x1, ebiten.KeyDigit2: 0x2, ebiten.KeyDigit3: 0x3, ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// Window is a windowed render sink built on ebiten. Unlike the other
// sinks it owns the run loop: ebiten calls Update at the display
// refresh rate, which samples the keyboard and advances the
// interpreter through the Step callback. Render only snapshots the
// grid for the next Draw.
type Window struct {
	mu    sync.Mutex
	frame [SCREEN_WIDTH * SCREEN_HEIGHT]bool

	Step func() error            // Advance the interpreter by one frame.
	Keys func(k byte, down bool) // Keypad state update.

	ctx context.Context
}

// NewWindow creates a windowed sink.
func NewWindow() *Window {
	return &Window{ctx: context.Background()}
}

func (w *Window) Render(s *Screen) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			w.frame[y*SCREEN_WIDTH+x] = s.Pixel(x, y)
		}
	}
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	select {
	case <-w.ctx.Done():
		return ebiten.Termination
	default:
	}

	if w.Keys != nil {
		for key, pad := range windowKeys {
			w.Keys(pad, ebiten.IsKeyPressed(key))
		}
	}

	if w.Step != nil {
		return w.Step()
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()

	screen.Fill(color.Black)
	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			if w.frame[y*SCREEN_WIDTH+x] {
				screen.Set(x, y, color.White)
			}
		}
	}
}

// Layout implements ebiten.Game. The logical size is the framebuffer
// size; ebiten scales it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return SCREEN_WIDTH, SCREEN_HEIGHT
}

// Run opens the window and drives Update/Draw until the context is
// cancelled, the window is closed, or Step fails.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx
	ebiten.SetWindowSize(SCREEN_WIDTH*WINDOW_SCALE, SCREEN_HEIGHT*WINDOW_SCALE)
	ebiten.SetWindowTitle("after8")
	ebiten.SetTPS(60)

	return ebiten.RunGame(w)
}
