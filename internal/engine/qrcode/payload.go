package qrcode

import "encoding/base64"

const MimeTypePNG = "image/png"

// Payload is an encoded image ready for display or saving.
type Payload struct {
	Data     []byte
	MimeType string
}

// DataURL returns the payload as a data: URL usable as an <img> src.
func (p Payload) DataURL() string {
	return "data:" + p.MimeType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Empty reports whether the payload carries no image data.
func (p Payload) Empty() bool {
	return len(p.Data) == 0
}
