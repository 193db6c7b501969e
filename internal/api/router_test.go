package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"qrlink/internal/api/handlers"
	"qrlink/internal/api/middleware"
	"qrlink/internal/engine/qrcode"
	"qrlink/internal/engine/session"
)

func newTestServer(t *testing.T, perMinute int) (*httptest.Server, *http.Client) {
	t.Helper()

	encoder := qrcode.NewSkip2Encoder()
	store := session.NewStore(func() *session.Controller {
		return session.NewController(encoder)
	})

	router := NewRouter(&Dependencies{
		PageHandler:       handlers.NewPageHandler(),
		HealthHandler:     handlers.NewHealthHandler(encoder, store),
		SessionMiddleware: middleware.NewSessionMiddleware(store, "qrlink_session"),
		RateLimiter:       middleware.NewRateLimiter(perMinute),
		CookieName:        "qrlink_session",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return srv, &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return string(b)
}

func TestRouter_GenerateDownloadReset(t *testing.T) {
	srv, client := newTestServer(t, 60)

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "QR Code Generator") {
		t.Error("Expected page title")
	}

	resp, err = client.PostForm(srv.URL+"/generate", url.Values{"url": {"example.com"}})
	if err != nil {
		t.Fatalf("POST /generate failed: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 after redirect, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "data:image/png;base64,") {
		t.Error("Expected rendered QR image")
	}

	resp, err = client.Get(srv.URL + "/download")
	if err != nil {
		t.Fatalf("GET /download failed: %v", err)
	}
	png := readBody(t, resp)
	if resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("Expected image/png, got %s", resp.Header.Get("Content-Type"))
	}
	if !strings.HasPrefix(png, "\x89PNG") {
		t.Error("Expected PNG signature")
	}

	resp, err = client.PostForm(srv.URL+"/reset", nil)
	if err != nil {
		t.Fatalf("POST /reset failed: %v", err)
	}
	if body := readBody(t, resp); strings.Contains(body, "data:image/png") {
		t.Error("Expected image to be gone after reset")
	}
}

func TestRouter_SessionsAreIsolated(t *testing.T) {
	srv, alice := newTestServer(t, 60)

	jar, _ := cookiejar.New(nil)
	bob := &http.Client{Jar: jar}

	resp, err := alice.PostForm(srv.URL+"/generate", url.Values{"url": {"example.com"}})
	if err != nil {
		t.Fatalf("POST /generate failed: %v", err)
	}
	readBody(t, resp)

	resp, err = bob.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	if body := readBody(t, resp); strings.Contains(body, "data:image/png") {
		t.Error("Expected other session to have no image")
	}
}

func TestRouter_RateLimitsGenerate(t *testing.T) {
	srv, client := newTestServer(t, 1)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	// First request creates the session cookie.
	resp, _ := client.Get(srv.URL + "/")
	readBody(t, resp)

	resp, _ = client.PostForm(srv.URL+"/generate", url.Values{"url": {"example.com"}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", resp.StatusCode)
	}

	resp, _ = client.PostForm(srv.URL+"/generate", url.Values{"url": {"example.com"}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", resp.StatusCode)
	}
}

func TestRouter_RateLimitIgnoresMissingCookie(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	accepted := 0
	for i := 0; i < 10; i++ {
		resp, err := client.PostForm(srv.URL+"/generate", url.Values{"url": {"example.com"}})
		if err != nil {
			t.Fatalf("POST /generate failed: %v", err)
		}
		readBody(t, resp)
		if resp.StatusCode == http.StatusSeeOther {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("Expected 1 accepted request without cookies, got %d", accepted)
	}

	resp, err := client.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	var health struct {
		Sessions int `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode health: %v", err)
	}
	resp.Body.Close()
	if health.Sessions != 1 {
		t.Errorf("Expected limited requests to create no sessions, got %d", health.Sessions)
	}
}

func TestRouter_EditAfterReadyDropsDownload(t *testing.T) {
	srv, client := newTestServer(t, 60)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.PostForm(srv.URL+"/generate", url.Values{"url": {"example.com"}})
	if err != nil {
		t.Fatalf("POST /generate failed: %v", err)
	}
	readBody(t, resp)

	resp, err = client.Post(srv.URL+"/api/v1/validate", "application/json", strings.NewReader(`{"url":"example.org"}`))
	if err != nil {
		t.Fatalf("POST /api/v1/validate failed: %v", err)
	}
	var v struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode validate response: %v", err)
	}
	resp.Body.Close()
	if v.Status == "ready" {
		t.Errorf("Expected result to be dropped after edit, status %q", v.Status)
	}

	resp, err = client.Get(srv.URL + "/download")
	if err != nil {
		t.Fatalf("GET /download failed: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("Expected 303, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body := readBody(t, resp)
	if strings.Contains(body, "data:image/png") || strings.Contains(body, `id="download"`) {
		t.Error("Expected no image or download link after edit")
	}
}

func TestRouter_Health(t *testing.T) {
	srv, client := newTestServer(t, 60)

	resp, err := client.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv, client := newTestServer(t, 60)

	resp, err := client.Get(srv.URL + "/generate")
	if err != nil {
		t.Fatalf("GET /generate failed: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}
