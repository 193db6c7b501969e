package download

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"qrlink/internal/engine/qrcode"
)

const filenamePrefix = "qrcode-"

// Saver hands a payload to the host's file-save mechanism.
type Saver interface {
	Save(name string, p qrcode.Payload) error
}

// Filename embeds now in milliseconds so repeated downloads do not collide.
func Filename(now time.Time, mimeType string) string {
	return filenamePrefix + strconv.FormatInt(now.UnixMilli(), 10) + extension(mimeType)
}

func extension(mimeType string) string {
	if mimeType == qrcode.MimeTypePNG || mimeType == "" {
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// Trigger saves p under a timestamped name and returns that name. A nil or
// empty payload is a no-op.
func Trigger(s Saver, p *qrcode.Payload, now time.Time) (string, error) {
	if p == nil || p.Empty() {
		return "", nil
	}

	name := Filename(now, p.MimeType)
	if err := s.Save(name, *p); err != nil {
		return "", fmt.Errorf("download: save %s: %w", name, err)
	}
	return name, nil
}

// DirSaver writes payloads into Dir, creating it when missing.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(name string, p qrcode.Payload) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.Dir, filepath.Base(name)), p.Data, 0644)
}

// Attachment streams the payload as a file download.
type Attachment struct {
	W http.ResponseWriter
}

func (a Attachment) Save(name string, p qrcode.Payload) error {
	h := a.W.Header()
	h.Set("Content-Type", p.MimeType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("Content-Length", strconv.Itoa(len(p.Data)))
	h.Set("Cache-Control", "no-store")

	_, err := a.W.Write(p.Data)
	return err
}
