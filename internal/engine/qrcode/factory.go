package qrcode

import (
	"fmt"
	"time"
)

// New builds the encoder for a configured backend name, wrapped in a cache
// when cacheTTL is positive.
func New(backend string, cacheTTL time.Duration) (Encoder, error) {
	var enc Encoder
	switch backend {
	case "", "skip2":
		enc = NewSkip2Encoder()
	case "boombuler":
		enc = NewBoombulerEncoder()
	default:
		return nil, fmt.Errorf("qrcode: unknown backend %q", backend)
	}

	if cacheTTL > 0 {
		enc = NewCachedEncoder(enc, cacheTTL)
	}
	return enc, nil
}
