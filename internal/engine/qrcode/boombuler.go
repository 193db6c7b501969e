package qrcode

import (
	"context"
	"fmt"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// BoombulerEncoder encodes with github.com/boombuler/barcode/qr.
type BoombulerEncoder struct{}

func NewBoombulerEncoder() *BoombulerEncoder {
	return &BoombulerEncoder{}
}

func (e *BoombulerEncoder) Encode(ctx context.Context, text string, opts Options) (Payload, error) {
	if err := opts.validate(); err != nil {
		return Payload{}, err
	}

	return runEncode(ctx, func() (Payload, error) {
		code, err := qr.Encode(text, qr.M, qr.Auto)
		if err != nil {
			return Payload{}, fmt.Errorf("qrcode: boombuler: %w", err)
		}
		return render(barcodeBitmap(code), opts)
	})
}

// barcodeBitmap reads one module per pixel from an unscaled barcode.
func barcodeBitmap(code barcode.Barcode) [][]bool {
	b := code.Bounds()
	bitmap := make([][]bool, b.Dy())
	for y := range bitmap {
		row := make([]bool, b.Dx())
		for x := range row {
			gray := color.GrayModel.Convert(code.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			row[x] = gray.Y < 0x80
		}
		bitmap[y] = row
	}
	return bitmap
}
