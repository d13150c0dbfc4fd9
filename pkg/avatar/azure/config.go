package azure

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianliechti/avatar/pkg/auth"
	"github.com/adrianliechti/avatar/pkg/avatar"
)

const (
	DefaultAPIVersion = "2024-08-01"

	DefaultVoice = "ar-SA-HamedNeural"

	DefaultCharacter       = "Harry"
	DefaultStyle           = "business"
	DefaultVideoFormat     = "mp4"
	DefaultVideoCodec      = "h264"
	DefaultSubtitleType    = "soft_embedded"
	DefaultBackgroundColor = "#FFFFFFFF"

	DefaultPollInterval   = 3 * time.Second
	DefaultPollRetries    = 3
	DefaultRequestTimeout = 30 * time.Second

	maxBackoff = 30 * time.Second
)

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithToken authenticates with a static subscription key.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithAuth authenticates with the given provider, taking precedence over WithToken.
func WithAuth(p auth.Provider) Option {
	return func(c *Client) {
		c.auth = p
	}
}

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithDefaults sets the options used for values a request leaves empty.
func WithDefaults(options avatar.SynthesizeOptions) Option {
	return func(c *Client) {
		c.defaults = options
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithPollTimeout bounds the overall wait for a job. Zero waits until the
// job is terminal or the caller's context is done.
func WithPollTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.pollTimeout = timeout
	}
}

// WithPollRetries caps the consecutive polls that may fail transiently
// before the job is given up as unavailable.
func WithPollRetries(retries int) Option {
	return func(c *Client) {
		c.pollRetries = retries
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}
