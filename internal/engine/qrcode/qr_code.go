package qrcode

import (
	"context"
	"fmt"

	goqr "github.com/skip2/go-qrcode"
)

// Encoder turns text into a rendered QR code image.
type Encoder interface {
	Encode(ctx context.Context, text string, opts Options) (Payload, error)
}

// Skip2Encoder encodes with github.com/skip2/go-qrcode.
type Skip2Encoder struct{}

func NewSkip2Encoder() *Skip2Encoder {
	return &Skip2Encoder{}
}

func (e *Skip2Encoder) Encode(ctx context.Context, text string, opts Options) (Payload, error) {
	if err := opts.validate(); err != nil {
		return Payload{}, err
	}

	return runEncode(ctx, func() (Payload, error) {
		bitmap, err := skip2Bitmap(text)
		if err != nil {
			return Payload{}, fmt.Errorf("qrcode: skip2: %w", err)
		}
		return render(bitmap, opts)
	})
}

// skip2Bitmap returns the symbol's modules without the library's quiet zone.
func skip2Bitmap(text string) ([][]bool, error) {
	qr, err := goqr.New(text, goqr.Medium)
	if err != nil {
		return nil, err
	}

	qr.DisableBorder = true

	return qr.Bitmap(), nil
}

// runEncode runs fn on its own goroutine so the caller can stop waiting when
// ctx is done. fn itself is not interrupted.
func runEncode(ctx context.Context, fn func() (Payload, error)) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}

	type result struct {
		payload Payload
		err     error
	}
	ch := make(chan result, 1)

	go func() {
		p, err := fn()
		ch <- result{payload: p, err: err}
	}()

	select {
	case r := <-ch:
		return r.payload, r.err
	case <-ctx.Done():
		return Payload{}, ctx.Err()
	}
}
