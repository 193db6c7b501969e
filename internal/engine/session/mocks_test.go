package session

import (
	"context"

	"qrlink/internal/engine/qrcode"
)

// mockEncoder is a qrcode.Encoder whose behaviour is set per test.
type mockEncoder struct {
	encodeFunc func(ctx context.Context, text string, opts qrcode.Options) (qrcode.Payload, error)
	calls      []string
}

func (m *mockEncoder) Encode(ctx context.Context, text string, opts qrcode.Options) (qrcode.Payload, error) {
	m.calls = append(m.calls, text)
	if m.encodeFunc != nil {
		return m.encodeFunc(ctx, text, opts)
	}
	return qrcode.Payload{Data: []byte("png:" + text), MimeType: qrcode.MimeTypePNG}, nil
}

// blockingEncoder holds every Encode call until release is closed.
type blockingEncoder struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingEncoder() *blockingEncoder {
	return &blockingEncoder{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingEncoder) Encode(ctx context.Context, text string, opts qrcode.Options) (qrcode.Payload, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return qrcode.Payload{Data: []byte("late"), MimeType: qrcode.MimeTypePNG}, nil
	case <-ctx.Done():
		return qrcode.Payload{}, ctx.Err()
	}
}

type memorySaver struct {
	saved map[string]qrcode.Payload
}

func (m *memorySaver) Save(name string, p qrcode.Payload) error {
	if m.saved == nil {
		m.saved = make(map[string]qrcode.Payload)
	}
	m.saved[name] = p
	return nil
}
