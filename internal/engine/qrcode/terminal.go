package qrcode

import (
	"strings"
)

const terminalMargin = 2

// Terminal renders text as a QR code made of Unicode half blocks, two module
// rows per line, dark modules drawn as filled cells.
func Terminal(text string) (string, error) {
	bitmap, err := skip2Bitmap(text)
	if err != nil {
		return "", err
	}

	size := len(bitmap) + 2*terminalMargin
	darkAt := func(y, x int) bool {
		y -= terminalMargin
		x -= terminalMargin
		if y < 0 || x < 0 || y >= len(bitmap) || x >= len(bitmap[y]) {
			return false
		}
		return bitmap[y][x]
	}

	var b strings.Builder
	for y := 0; y < size; y += 2 {
		for x := 0; x < size; x++ {
			top := darkAt(y, x)
			bottom := darkAt(y+1, x)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
