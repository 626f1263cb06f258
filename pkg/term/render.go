package term

import (
	"strings"

	"github.com/mnafees/c8vm/internal"
)

const (
	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// Each text cell covers two display rows: top and bottom pixel.
var halfBlocks = [4]string{
	" ", // neither
	"▀", // top
	"▄", // bottom
	"█", // both
}

// render draws the display as ScreenHeight/2 lines of ScreenWidth cells.
// Lines end in CRLF since the terminal is in raw mode.
func render(pixels *[internal.DisplaySize]bool) string {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + internal.DisplaySize*2)
	sb.WriteString(cursorHome)
	for y := 0; y < internal.ScreenHeight; y += 2 {
		top := pixels[y*internal.ScreenWidth : (y+1)*internal.ScreenWidth]
		bottom := pixels[(y+1)*internal.ScreenWidth : (y+2)*internal.ScreenWidth]
		for x := 0; x < internal.ScreenWidth; x++ {
			cell := 0
			if top[x] {
				cell |= 1
			}
			if bottom[x] {
				cell |= 2
			}
			sb.WriteString(halfBlocks[cell])
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
