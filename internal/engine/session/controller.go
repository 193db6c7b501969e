package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"qrlink/internal/engine/download"
	"qrlink/internal/engine/links"
	"qrlink/internal/engine/qrcode"
)

// Validator reports whether raw input normalizes to a usable URL.
type Validator func(raw string) bool

// Controller owns one GenerationRequest and drives it through its states.
// It is safe for concurrent use; the encoder runs without the lock held.
type Controller struct {
	encoder  qrcode.Encoder
	options  qrcode.Options
	validate Validator
	timeout  time.Duration

	mu    sync.Mutex
	input string
	valid bool
	state State
}

type Option func(*Controller)

// WithTimeout bounds each generation. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithValidator replaces links.Validate.
func WithValidator(v Validator) Option {
	return func(c *Controller) { c.validate = v }
}

// WithOptions replaces qrcode.DefaultOptions.
func WithOptions(o qrcode.Options) Option {
	return func(c *Controller) { c.options = o }
}

func NewController(encoder qrcode.Encoder, opts ...Option) *Controller {
	c := &Controller{
		encoder:  encoder,
		options:  qrcode.DefaultOptions,
		validate: links.Validate,
		state:    Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetInput records what the user typed and recomputes validity. Any error or
// previous result is dropped, except while a generation is running.
func (c *Controller) SetInput(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.input = raw
	c.valid = strings.TrimSpace(raw) != "" && c.validate(raw)

	if _, generating := c.state.(Generating); !generating {
		c.state = Validating{}
	}
}

// Submit validates the current input and, when it passes, encodes it. It
// blocks until the encoder returns. Guard and encoder failures move the
// controller to Failed and are also returned as *Error.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if _, generating := c.state.(Generating); generating {
		c.mu.Unlock()
		return ErrInFlight
	}

	trimmed := strings.TrimSpace(c.input)
	if trimmed == "" {
		err := newError(EmptyInput, nil)
		c.state = Failed{Err: err}
		c.mu.Unlock()
		return err
	}

	normalized := links.Normalize(trimmed)
	if !c.validate(trimmed) {
		err := newError(InvalidURL, nil)
		c.state = Failed{Err: err}
		c.mu.Unlock()
		return err
	}

	c.state = Generating{URL: normalized}
	c.mu.Unlock()

	payload, encErr := c.encode(ctx, normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	if encErr != nil {
		log.Error().Err(encErr).Str("url", normalized).Msg("qr code generation failed")
		err := newError(EncodingFailure, encErr)
		c.state = Failed{Err: err}
		return err
	}

	c.state = Ready{URL: normalized, Payload: payload}
	return nil
}

func (c *Controller) encode(ctx context.Context, url string) (p qrcode.Payload, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: EncodingFailure, Message: MsgEncodingFailure}
			log.Error().Interface("panic", r).Str("url", url).Msg("recovered from encoder panic")
		}
	}()

	return c.encoder.Encode(ctx, url, c.options)
}

// Reset returns the controller to Idle, clearing input, validity, payload
// and error.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, generating := c.state.(Generating); generating {
		return ErrInFlight
	}

	c.input = ""
	c.valid = false
	c.state = Idle{}
	return nil
}

// Download hands the Ready payload to s. It is a no-op returning an empty
// name in any other state.
func (c *Controller) Download(s download.Saver, now time.Time) (string, error) {
	c.mu.Lock()
	ready, ok := c.state.(Ready)
	c.mu.Unlock()

	if !ok {
		return download.Trigger(s, nil, now)
	}
	return download.Trigger(s, &ready.Payload, now)
}

// CanSubmit reports whether the submit control is enabled: there is input
// and nothing is generating. Validity is deliberately not considered.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmit()
}

func (c *Controller) canSubmit() bool {
	_, generating := c.state.(Generating)
	return !generating && strings.TrimSpace(c.input) != ""
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View is a point-in-time copy of everything the page renders.
type View struct {
	Input         string
	NormalizedURL string
	Valid         bool
	Status        Status
	CanSubmit     bool
	Payload       *qrcode.Payload
	Error         *Error
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Input:     c.input,
		Valid:     c.valid,
		Status:    c.state.Status(),
		CanSubmit: c.canSubmit(),
	}
	if strings.TrimSpace(c.input) != "" {
		v.NormalizedURL = links.Normalize(c.input)
	}

	switch s := c.state.(type) {
	case Ready:
		p := s.Payload
		v.Payload = &p
	case Failed:
		v.Error = s.Err
	}
	return v
}
