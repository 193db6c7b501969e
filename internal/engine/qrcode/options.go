package qrcode

import (
	"errors"
	"fmt"
	"image/color"
)

const (
	minWidth  = 128
	maxWidth  = 2048
	maxMargin = 16

	// Pixels per module when the requested width cannot fit the symbol.
	fallbackScale = 4
)

// Options controls how a symbol is painted. Error correction is always Medium.
type Options struct {
	Width  int
	Margin int // quiet zone, in modules
	Dark   color.RGBA
	Light  color.RGBA
}

// DefaultOptions is the fixed rendering used for every generated code.
var DefaultOptions = Options{
	Width:  300,
	Margin: 2,
	Dark:   color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}, // #1f2937
	Light:  color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, // #ffffff
}

var errInvalidOptions = errors.New("invalid render options")

func (o Options) validate() error {
	if o.Width < minWidth || o.Width > maxWidth {
		return fmt.Errorf("%w: width must be between %d and %d", errInvalidOptions, minWidth, maxWidth)
	}
	if o.Margin < 0 || o.Margin > maxMargin {
		return fmt.Errorf("%w: margin must be between 0 and %d", errInvalidOptions, maxMargin)
	}
	return nil
}

func (o Options) key() string {
	return fmt.Sprintf("%d/%d/%02x%02x%02x%02x/%02x%02x%02x%02x",
		o.Width, o.Margin,
		o.Dark.R, o.Dark.G, o.Dark.B, o.Dark.A,
		o.Light.R, o.Light.G, o.Light.B, o.Light.A)
}
