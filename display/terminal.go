package display

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal is an interactive terminal sink built on tcell. Besides
// rendering it feeds host keyboard events back as keypad presses and
// reports a quit request on Ctrl-C or Escape.
//
// OnKey and OnQuit are invoked from the event polling goroutine; set
// them before Start.
type Terminal struct {
	screen tcell.Screen
	style  tcell.Style

	OnKey  func(k byte) // Keypad key press.
	OnQuit func()       // Quit requested from the keyboard.

	stopOnce sync.Once
}

// NewTerminal initializes the terminal for cell-based drawing.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	return &Terminal{
		screen: screen,
		style:  tcell.StyleDefault,
	}, nil
}

// Start launches the keyboard event loop.
func (t *Terminal) Start() {
	go t.loop()
}

func (t *Terminal) loop() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC, tcell.KeyEscape:
				if t.OnQuit != nil {
					t.OnQuit()
				}
			case tcell.KeyRune:
				if k, ok := KeypadIndex(ev.Rune()); ok && t.OnKey != nil {
					t.OnKey(k)
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) Render(s *Screen) {
	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			ch := ' '
			if s.Pixel(x, y) {
				ch = consolePixel
			}
			t.screen.SetContent(x, y, ch, nil, t.style)
		}
	}
	t.screen.Show()
}

// Beep rings the terminal bell.
func (t *Terminal) Beep() {
	t.screen.Beep()
}

// Stop restores the terminal. The event loop exits on its own once the
// screen is finalized.
func (t *Terminal) Stop() {
	t.stopOnce.Do(t.screen.Fini)
}
