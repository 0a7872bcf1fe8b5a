// Package display owns the monochrome framebuffer of the machine and
// the render sinks that project it.
package display

const (
	SCREEN_WIDTH  = 64 // Framebuffer width in pixels.
	SCREEN_HEIGHT = 32 // Framebuffer height in pixels.
)

// Renderer is the output sink capability. A sink receives the surface
// and produces output; it never mutates the pixel grid.
type Renderer interface {
	Render(s *Screen)
}

// Beeper is an optional sink capability for the sound timer event.
type Beeper interface {
	Beep()
}

// Screen is a fixed 64x32 monochrome pixel grid with wrap-around
// addressing. It performs no output-device I/O itself; Render hands
// the grid to the attached sink.
type Screen struct {
	pixel    [SCREEN_WIDTH * SCREEN_HEIGHT]bool
	renderer Renderer
}

// NewScreen creates a screen attached to the given render sink.
// A nil renderer attaches the no-op sink.
func NewScreen(renderer Renderer) *Screen {
	if renderer == nil {
		renderer = Void{}
	}

	return &Screen{renderer: renderer}
}

// Clear resets every pixel to off.
func (s *Screen) Clear() {
	clear(s.pixel[:])
}

// Pixel returns the state of the pixel at x, y. Coordinates are taken
// modulo the screen dimensions.
func (s *Screen) Pixel(x, y int) bool {
	return s.pixel[(y%SCREEN_HEIGHT)*SCREEN_WIDTH+(x%SCREEN_WIDTH)]
}

// DrawSprite XORs a sprite into the grid at posX, posY and reports
// whether any pixel toggled. Each sprite byte is one 8-pixel row, most
// significant bit leftmost; rows and columns wrap around the edges.
// Off sprite bits leave the framebuffer untouched and never count
// toward the collision flag.
func (s *Screen) DrawSprite(sprite []byte, posX, posY int) bool {
	changed := false
	for i, spriteByte := range sprite {
		y := (posY + i) % SCREEN_HEIGHT
		for bit := range 8 {
			if spriteByte&(0b1000_0000>>bit) == 0 {
				continue
			}
			x := (posX + bit) % SCREEN_WIDTH
			idx := y*SCREEN_WIDTH + x
			prev := s.pixel[idx]
			s.pixel[idx] = !prev
			changed = changed || s.pixel[idx] != prev
		}
	}

	return changed
}

// Render hands the current grid to the render sink.
func (s *Screen) Render() {
	s.renderer.Render(s)
}

// Void is the no-op render sink.
type Void struct{}

func (Void) Render(*Screen) {}
