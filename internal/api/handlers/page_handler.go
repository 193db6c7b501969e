package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"qrlink/internal/api/middleware"
	"qrlink/internal/engine/download"
	"qrlink/internal/engine/qrcode"
	"qrlink/internal/engine/session"
	apperrors "qrlink/internal/pkg/errors"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type PageHandler struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		tmpl: pageTemplate,
		now:  time.Now,
	}
}

type pageData struct {
	Input      string
	Valid      bool
	CanSubmit  bool
	Generating bool
	Error      string
	ImageSrc   template.URL
	Width      int
}

func newPageData(v session.View) pageData {
	data := pageData{
		Input:      v.Input,
		Valid:      v.Valid,
		CanSubmit:  v.CanSubmit,
		Generating: v.Status == session.StatusGenerating,
		Width:      qrcode.DefaultOptions.Width,
	}
	if v.Error != nil {
		data.Error = v.Error.Message
	}
	if v.Payload != nil {
		// Generated by us, always a base64 PNG data URL.
		data.ImageSrc = template.URL(v.Payload.DataURL())
	}
	return data
}

func controllerOrError(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	c, ok := middleware.ControllerFrom(r.Context())
	if !ok {
		apperrors.WriteError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Session unavailable", nil)
		return nil, false
	}
	return c, true
}

// Index renders the page for the caller's session.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerOrError(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.tmpl.Execute(w, newPageData(c.View())); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}

// Generate takes the submitted url field, runs the generation and sends the
// browser back to the page.
func (h *PageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerOrError(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		apperrors.WriteError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid form body", nil)
		return
	}

	c.SetInput(r.PostForm.Get("url"))

	// A client disconnect must not cancel the generation.
	ctx := context.WithoutCancel(r.Context())
	if err := c.Submit(ctx); err != nil {
		if errors.Is(err, session.ErrInFlight) {
			log.Debug().Str("session_id", middleware.SessionIDFrom(r.Context())).Msg("generation already in flight")
		} else {
			log.Debug().Err(err).Str("kind", session.KindOf(err).String()).Msg("generation rejected")
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Reset clears the session and sends the browser back to the page.
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerOrError(w, r)
	if !ok {
		return
	}

	if err := c.Reset(); err != nil {
		apperrors.WriteError(w, http.StatusConflict, apperrors.ErrCodeConflict, "A QR code is still being generated", nil)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Download streams the ready image as an attachment, or redirects to the page
// when there is nothing to download.
func (h *PageHandler) Download(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerOrError(w, r)
	if !ok {
		return
	}

	name, err := c.Download(download.Attachment{W: w}, h.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to send download")
		return
	}
	if name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	log.Debug().Str("filename", name).Msg("qr code downloaded")
}

type validateRequest struct {
	URL string `json:"url"`
}

type validateResponse struct {
	NormalizedURL string `json:"normalized_url"`
	Valid         bool   `json:"valid"`
	CanSubmit     bool   `json:"can_submit"`
	Status        string `json:"status"`
}

// Validate records a keystroke and reports the input's validity.
func (h *PageHandler) Validate(w http.ResponseWriter, r *http.Request) {
	c, ok := controllerOrError(w, r)
	if !ok {
		return
	}

	var req validateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		apperrors.WriteError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	c.SetInput(req.URL)
	v := c.View()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validateResponse{
		NormalizedURL: v.NormalizedURL,
		Valid:         v.Valid,
		CanSubmit:     v.CanSubmit,
		Status:        v.Status.String(),
	})
}
