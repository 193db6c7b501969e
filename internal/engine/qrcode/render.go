package qrcode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
)

var errEmptySymbol = errors.New("encoder returned an empty symbol")

// render paints a module bitmap (no quiet zone) into a square PNG. The image
// is exactly opts.Width pixels wide unless the symbol plus margin needs more
// than one pixel per module, in which case fallbackScale is used.
func render(bitmap [][]bool, opts Options) (Payload, error) {
	n := len(bitmap)
	if n == 0 {
		return Payload{}, errEmptySymbol
	}

	total := n + 2*opts.Margin
	size := total * fallbackScale
	scale := float64(fallbackScale)
	if opts.Width >= total {
		size = opts.Width
		scale = float64(opts.Width) / float64(total)
	}
	offset := float64(opts.Margin) * scale

	// Index 0 is the light colour, so untouched pixels are background.
	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{opts.Light, opts.Dark})

	for y := 0; y < size; y++ {
		fy := float64(y)
		if fy < offset || fy >= float64(size)-offset {
			continue
		}
		row := int((fy - offset) / scale)
		if row >= n {
			continue
		}
		for x := 0; x < size; x++ {
			fx := float64(x)
			if fx < offset || fx >= float64(size)-offset {
				continue
			}
			col := int((fx - offset) / scale)
			if col < len(bitmap[row]) && bitmap[row][col] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Payload{}, err
	}

	return Payload{Data: buf.Bytes(), MimeType: MimeTypePNG}, nil
}
