package avatar

import (
	"context"
	"errors"

	"github.com/samber/mo"
)

type Provider interface {
	Synthesize(ctx context.Context, input string, options *SynthesizeOptions) (*Synthesis, error)
}

var (
	ErrConfiguration  = errors.New("invalid configuration")
	ErrAuthentication = errors.New("authentication failed")
	ErrInvalidInput   = errors.New("invalid input")
	ErrTimeout        = errors.New("synthesis wait timed out")
)

type InputKind string

const (
	InputKindSSML      InputKind = "SSML"
	InputKindPlainText InputKind = "PlainText"
)

type SynthesizeOptions struct {
	Voice     string
	InputKind InputKind

	Avatar AvatarConfig
}

type AvatarConfig struct {
	// Customized is nil when unset so an explicit false can override a default.
	Customized *bool

	Character string
	Style     string

	VideoFormat string
	VideoCodec  string

	SubtitleType    string
	BackgroundColor string
}

// Status is the job state reported by the remote service. Labels other than
// the constants below are passed through unchanged and treated as in progress.
type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusRunning    Status = "Running"
	StatusSucceeded  Status = "Succeeded"
	StatusFailed     Status = "Failed"

	// StatusTransient is never reported by the service. It marks a poll that
	// could not observe the job (network error, throttling, server error).
	StatusTransient Status = "Transient"
)

func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

type Job struct {
	ID     string
	Status Status

	Result mo.Option[string]

	Code    int
	Message string
}

type Outcome string

const (
	OutcomeSucceeded   Outcome = "succeeded"
	OutcomeRejected    Outcome = "rejected"
	OutcomeFailed      Outcome = "failed"
	OutcomeUnavailable Outcome = "unavailable"
)

type Synthesis struct {
	ID string

	Outcome Outcome
	Status  Status

	Polls int

	URL mo.Option[string]
}

func (s *Synthesis) Succeeded() bool {
	return s != nil && s.Outcome == OutcomeSucceeded
}
