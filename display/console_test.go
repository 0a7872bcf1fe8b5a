package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_Render(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	s := NewScreen(NewConsole(&buf))
	s.DrawSprite([]byte{0b1100_0000}, 0, 0)
	s.Render()

	out := buf.String()
	assert.True(strings.HasPrefix(out, "\x1bc\x1b[1;1H"), "reset and home escape prefix")

	lines := strings.Split(strings.TrimPrefix(out, "\x1bc\x1b[1;1H"), "\n")
	assert.Equal(SCREEN_HEIGHT+1, len(lines), "one line per row plus trailing newline")
	assert.Equal("██"+strings.Repeat(" ", SCREEN_WIDTH-2), lines[0])
	assert.Equal(strings.Repeat(" ", SCREEN_WIDTH), lines[1])
}

func TestConsole_Beep(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	NewConsole(&buf).Beep()
	assert.Equal("\a", buf.String())
}

func TestKeypadIndex(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		r rune
		k byte
	}){
		{'1', 0x1},
		{'4', 0xC},
		{'q', 0x4},
		{'Q', 0x4},
		{'x', 0x0},
		{'v', 0xF},
	}

	for _, entry := range table {
		k, ok := KeypadIndex(entry.r)
		assert.True(ok, "rune %q", entry.r)
		assert.Equal(entry.k, k, "rune %q", entry.r)
	}

	_, ok := KeypadIndex('p')
	assert.False(ok)
}
