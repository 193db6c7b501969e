package session

import "qrlink/internal/engine/qrcode"

type Status int

const (
	StatusIdle Status = iota
	StatusValidating
	StatusGenerating
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusValidating:
		return "validating"
	case StatusGenerating:
		return "generating"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is one of Idle, Validating, Generating, Ready or Failed. Only Ready
// carries a payload and only Failed carries an error.
type State interface {
	Status() Status
	isState()
}

type Idle struct{}

type Validating struct{}

// Generating records the normalized URL handed to the encoder.
type Generating struct {
	URL string
}

type Ready struct {
	URL     string
	Payload qrcode.Payload
}

type Failed struct {
	Err *Error
}

func (Idle) Status() Status       { return StatusIdle }
func (Validating) Status() Status { return StatusValidating }
func (Generating) Status() Status { return StatusGenerating }
func (Ready) Status() Status      { return StatusReady }
func (Failed) Status() Status     { return StatusFailed }

func (Idle) isState()       {}
func (Validating) isState() {}
func (Generating) isState() {}
func (Ready) isState()      {}
func (Failed) isState()     {}
