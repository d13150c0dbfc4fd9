package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adrianliechti/avatar/pkg/auth"
	"github.com/adrianliechti/avatar/pkg/auth/static"
	"github.com/adrianliechti/avatar/pkg/avatar"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var _ avatar.Provider = (*Client)(nil)

type Client struct {
	client *http.Client
	logger *slog.Logger

	url   *url.URL
	token string

	auth auth.Provider

	apiVersion string
	defaults   avatar.SynthesizeOptions

	pollInterval   time.Duration
	pollTimeout    time.Duration
	pollRetries    int
	requestTimeout time.Duration

	newID func() string
	sleep func(ctx context.Context, d time.Duration) error
}

func New(endpoint string, options ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: missing endpoint", avatar.ErrConfiguration)
	}

	u, err := url.Parse(endpoint)

	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", avatar.ErrConfiguration, endpoint)
	}

	c := &Client{
		client: http.DefaultClient,
		logger: slog.Default(),

		url: u,

		apiVersion: DefaultAPIVersion,

		pollInterval:   DefaultPollInterval,
		pollRetries:    DefaultPollRetries,
		requestTimeout: DefaultRequestTimeout,

		newID: uuid.NewString,
		sleep: sleep,
	}

	for _, option := range options {
		option(c)
	}

	if c.auth == nil {
		p, err := static.New(c.token)

		if err != nil {
			return nil, err
		}

		c.auth = p
	}

	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}

	if c.pollRetries < 0 {
		c.pollRetries = 0
	}

	return c, nil
}

// NewJobID returns a fresh identifier for a batch synthesis job.
func (c *Client) NewJobID() string {
	return c.newID()
}

// Synthesize submits a new job and blocks until it reaches a terminal state.
// Rejected submissions and failed jobs are reported through the outcome of
// the returned synthesis; errors are returned for invalid configuration,
// authentication failures and cancellation.
func (c *Client) Synthesize(ctx context.Context, input string, options *avatar.SynthesizeOptions) (*avatar.Synthesis, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty input", avatar.ErrInvalidInput)
	}

	if c.pollTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeoutCause(ctx, c.pollTimeout, avatar.ErrTimeout)
		defer cancel()
	}

	opts := c.resolveOptions(options)

	id := c.NewJobID()
	content := formatContent(input, opts)

	result := &avatar.Synthesis{
		ID: id,

		URL: mo.None[string](),
	}

	accepted, err := c.Submit(ctx, id, content, &opts)

	if err != nil {
		return nil, err
	}

	if !accepted {
		result.Outcome = avatar.OutcomeRejected
		result.Status = avatar.StatusFailed

		return result, nil
	}

	transient := 0

	for {
		job, err := c.Status(ctx, id)

		if err != nil {
			return nil, err
		}

		result.Polls++
		result.Status = job.Status

		delay := c.pollInterval

		switch job.Status {
		case avatar.StatusSucceeded:
			c.logger.Info("batch avatar synthesis job succeeded", "id", id)

			result.Outcome = avatar.OutcomeSucceeded
			result.URL = job.Result

			return result, nil

		case avatar.StatusFailed:
			c.logger.Error("batch avatar synthesis job failed", "id", id)

			result.Outcome = avatar.OutcomeFailed

			return result, nil

		case avatar.StatusTransient:
			transient++

			if transient > c.pollRetries {
				c.logger.Error("batch avatar synthesis job status unavailable", "id", id, "attempts", transient)

				result.Outcome = avatar.OutcomeUnavailable
				result.Status = avatar.StatusFailed

				return result, nil
			}

			delay = backoff(c.pollInterval, transient)

		default:
			transient = 0

			c.logger.Info("job still running", "id", id, "status", job.Status)
		}

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// Submit creates the batch synthesis job with the given id. It reports false
// when the service rejects the job.
func (c *Client) Submit(ctx context.Context, id, content string, options *avatar.SynthesizeOptions) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: missing job id", avatar.ErrInvalidInput)
	}

	opts := c.resolveOptions(options)

	body := SynthesisRequest{
		SynthesisConfig: SynthesisConfig{
			Voice: opts.Voice,
		},

		InputKind: string(opts.InputKind),

		Inputs: []SynthesisInput{
			{
				Content: content,
			},
		},

		AvatarConfig: AvatarConfig{
			Customized: lo.FromPtr(opts.Avatar.Customized),

			TalkingAvatarCharacter: opts.Avatar.Character,
			TalkingAvatarStyle:     opts.Avatar.Style,

			VideoFormat: opts.Avatar.VideoFormat,
			VideoCodec:  opts.Avatar.VideoCodec,

			SubtitleType:    opts.Avatar.SubtitleType,
			BackgroundColor: opts.Avatar.BackgroundColor,
		},
	}

	resp, err := c.do(ctx, http.MethodPut, id, jsonReader(body))

	if err != nil {
		return false, err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error("failed to submit job", "id", id, "status", resp.StatusCode, "body", readBody(resp))
		return false, nil
	}

	var job SynthesisJob

	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil || job.ID == "" {
		job.ID = id
	}

	c.logger.Info("job submitted successfully", "id", job.ID)

	return true, nil
}

// Status fetches the current state of a job. Service and transport failures
// are reported as failed or transient jobs rather than errors.
func (c *Client) Status(ctx context.Context, id string) (*avatar.Job, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing job id", avatar.ErrInvalidInput)
	}

	resp, err := c.do(ctx, http.MethodGet, id, nil)

	if err != nil {
		if errors.Is(err, avatar.ErrAuthentication) || ctx.Err() != nil {
			return nil, err
		}

		c.logger.Warn("failed to get job status", "id", id, "error", err)

		return &avatar.Job{
			ID:     id,
			Status: avatar.StatusTransient,

			Result: mo.None[string](),

			Message: err.Error(),
		}, nil
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		message := readBody(resp)

		c.logger.Error("failed to get job status", "id", id, "status", resp.StatusCode, "body", message)

		status := avatar.StatusFailed

		if isTransient(resp.StatusCode) {
			status = avatar.StatusTransient
		}

		return &avatar.Job{
			ID:     id,
			Status: status,

			Result: mo.None[string](),

			Code:    resp.StatusCode,
			Message: message,
		}, nil
	}

	var job SynthesisJob

	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		c.logger.Warn("failed to decode job status", "id", id, "error", err)

		return &avatar.Job{
			ID:     id,
			Status: avatar.StatusTransient,

			Result: mo.None[string](),

			Code:    resp.StatusCode,
			Message: err.Error(),
		}, nil
	}

	result := &avatar.Job{
		ID:     id,
		Status: avatar.Status(job.Status),

		Result: mo.None[string](),

		Code: resp.StatusCode,
	}

	if result.Status == avatar.StatusSucceeded {
		var output string

		if job.Outputs != nil {
			output = job.Outputs.Result
		}

		c.logger.Info("succeeded with download url", "id", id, "url", output)

		result.Result = mo.EmptyableToOption(output)
	}

	return result, nil
}

func (c *Client) do(ctx context.Context, method, id string, body io.Reader) (*http.Response, error) {
	var reqCtx context.Context
	var cancel context.CancelFunc

	if c.requestTimeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.requestTimeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}

	// token acquisition counts against the request timeout
	headers, err := c.auth.Headers(reqCtx)

	if err != nil {
		cancel()

		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}

		return nil, err
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.jobURL(id), body)

	if err != nil {
		cancel()
		return nil, err
	}

	for key, values := range headers {
		req.Header[key] = values
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)

	if err != nil {
		cancel()

		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}

		return nil, err
	}

	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}

	return resp, nil
}

func (c *Client) jobURL(id string) string {
	u := c.url.JoinPath("avatar", "batchsyntheses", id)

	query := u.Query()
	query.Set("api-version", c.apiVersion)

	u.RawQuery = query.Encode()

	return u.String()
}

func (c *Client) resolveOptions(options *avatar.SynthesizeOptions) avatar.SynthesizeOptions {
	if options == nil {
		options = new(avatar.SynthesizeOptions)
	}

	defaults := c.defaults

	return avatar.SynthesizeOptions{
		Voice:     lo.CoalesceOrEmpty(options.Voice, defaults.Voice, DefaultVoice),
		InputKind: lo.CoalesceOrEmpty(options.InputKind, defaults.InputKind, avatar.InputKindSSML),

		Avatar: avatar.AvatarConfig{
			Customized: lo.CoalesceOrEmpty(options.Avatar.Customized, defaults.Avatar.Customized, lo.ToPtr(false)),

			Character: lo.CoalesceOrEmpty(options.Avatar.Character, defaults.Avatar.Character, DefaultCharacter),
			Style:     lo.CoalesceOrEmpty(options.Avatar.Style, defaults.Avatar.Style, DefaultStyle),

			VideoFormat: lo.CoalesceOrEmpty(options.Avatar.VideoFormat, defaults.Avatar.VideoFormat, DefaultVideoFormat),
			VideoCodec:  lo.CoalesceOrEmpty(options.Avatar.VideoCodec, defaults.Avatar.VideoCodec, DefaultVideoCodec),

			SubtitleType:    lo.CoalesceOrEmpty(options.Avatar.SubtitleType, defaults.Avatar.SubtitleType, DefaultSubtitleType),
			BackgroundColor: lo.CoalesceOrEmpty(options.Avatar.BackgroundColor, defaults.Avatar.BackgroundColor, DefaultBackgroundColor),
		},
	}
}

func isTransient(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// backoff doubles the interval for each consecutive transient poll.
func backoff(interval time.Duration, attempt int) time.Duration {
	limit := max(interval, maxBackoff)

	for i := 1; i < attempt && interval < limit; i++ {
		interval *= 2
	}

	return min(interval, limit)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)

	case <-timer.C:
		return nil
	}
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

func jsonReader(v any) io.Reader {
	b := new(bytes.Buffer)

	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
	return b
}

func readBody(resp *http.Response) string {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	return strings.TrimSpace(string(data))
}
