package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

const (
	consoleBlank = ' '
	consolePixel = '█'
)

// Console renders the screen as a full redraw on a character terminal:
// a terminal-reset plus home-cursor escape sequence, then one rune per
// pixel, one line per framebuffer row.
type Console struct {
	Out io.Writer
}

// NewConsole creates a console sink writing to out, or stdout when out
// is nil.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}

	return &Console{Out: out}
}

func (cr *Console) Render(s *Screen) {
	var buf bytes.Buffer
	buf.Grow(SCREEN_HEIGHT * (SCREEN_WIDTH*len(string(consolePixel)) + 1))
	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			if s.Pixel(x, y) {
				buf.WriteRune(consolePixel)
			} else {
				buf.WriteRune(consoleBlank)
			}
		}
		buf.WriteByte('\n')
	}

	fmt.Fprintf(cr.Out, "\x1bc\x1b[1;1H%s", buf.String())
}

// Beep rings the terminal bell.
func (cr *Console) Beep() {
	fmt.Fprint(cr.Out, "\a")
}
