package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adrianliechti/avatar/pkg/avatar"
	"github.com/adrianliechti/avatar/pkg/avatar/azure"
	"github.com/adrianliechti/avatar/pkg/limiter"
	"github.com/adrianliechti/avatar/pkg/otel"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterSynthesizer(id string, p avatar.Provider) {
	if cfg.synthesizer == nil {
		cfg.synthesizer = make(map[string]avatar.Provider)
	}

	if _, ok := cfg.synthesizer[""]; !ok {
		cfg.synthesizer[""] = p
	}

	cfg.synthesizer[id] = p
}

func (cfg *Config) Synthesizer(id string) (avatar.Provider, error) {
	if cfg.synthesizer != nil {
		if p, ok := cfg.synthesizer[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("synthesizer not found: " + id)
}

type synthesizerConfig struct {
	Type string `yaml:"type"`

	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Region string `yaml:"region"`

	Credential *credentialConfig `yaml:"credential"`

	APIVersion string `yaml:"api_version"`

	Voice     string       `yaml:"voice"`
	InputKind string       `yaml:"input_kind"`
	Avatar    avatarConfig `yaml:"avatar"`

	Poll pollConfig `yaml:"poll"`

	RequestTimeout time.Duration `yaml:"request_timeout"`

	Limit *int `yaml:"limit"`
}

type avatarConfig struct {
	Customized *bool `yaml:"customized"`

	Character string `yaml:"character"`
	Style     string `yaml:"style"`

	VideoFormat string `yaml:"video_format"`
	VideoCodec  string `yaml:"video_codec"`

	SubtitleType    string `yaml:"subtitle_type"`
	BackgroundColor string `yaml:"background_color"`
}

type pollConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	Retries  *int          `yaml:"retries"`
}

type synthesizerContext struct {
	Client *http.Client
	Logger *slog.Logger

	Limiter *rate.Limiter
}

func (cfg *Config) registerSynthesizers(f *configFile) error {
	var configs map[string]synthesizerConfig

	if err := f.Synthesizers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Synthesizers.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		synthesizer, err := createSynthesizer(id, config)

		if err != nil {
			return fmt.Errorf("synthesizer %s: %w", id, err)
		}

		cfg.RegisterSynthesizer(id, synthesizer)
	}

	return nil
}

func createSynthesizer(id string, cfg synthesizerConfig) (avatar.Provider, error) {
	context := synthesizerContext{
		Client: &http.Client{
			Transport: otel.Transport(http.DefaultTransport),
		},

		Logger: slog.Default().With("synthesizer", id),

		Limiter: createLimiter(cfg.Limit),
	}

	var p avatar.Provider
	var err error

	if cfg.Type == "" {
		cfg.Type = "azure"
	}

	switch strings.ToLower(cfg.Type) {
	case "azure":
		p, err = azureSynthesizer(cfg, context)

	default:
		return nil, fmt.Errorf("%w: invalid synthesizer type: %s", avatar.ErrConfiguration, cfg.Type)
	}

	if err != nil {
		return nil, err
	}

	if context.Limiter != nil {
		p = limiter.NewSynthesizer(context.Limiter, p)
	}

	return otel.NewSynthesizer(strings.ToLower(cfg.Type), id, p), nil
}

func azureSynthesizer(cfg synthesizerConfig, context synthesizerContext) (avatar.Provider, error) {
	credential := credentialConfig{
		Token:  cfg.Token,
		Region: cfg.Region,
	}

	if cfg.Credential != nil {
		credential = *cfg.Credential

		if credential.Token == "" {
			credential.Token = cfg.Token
		}

		if credential.Region == "" {
			credential.Region = cfg.Region
		}
	}

	// the endpoint is validated before any credential is acquired
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: missing endpoint", avatar.ErrConfiguration)
	}

	authorizer, err := createCredential(credential)

	if err != nil {
		return nil, err
	}

	inputKind, err := parseInputKind(cfg.InputKind)

	if err != nil {
		return nil, err
	}

	options := []azure.Option{
		azure.WithAuth(authorizer),
		azure.WithClient(context.Client),
		azure.WithLogger(context.Logger),

		azure.WithDefaults(avatar.SynthesizeOptions{
			Voice:     cfg.Voice,
			InputKind: inputKind,

			Avatar: avatar.AvatarConfig{
				Customized: cfg.Avatar.Customized,

				Character: cfg.Avatar.Character,
				Style:     cfg.Avatar.Style,

				VideoFormat: cfg.Avatar.VideoFormat,
				VideoCodec:  cfg.Avatar.VideoCodec,

				SubtitleType:    cfg.Avatar.SubtitleType,
				BackgroundColor: cfg.Avatar.BackgroundColor,
			},
		}),
	}

	if cfg.APIVersion != "" {
		options = append(options, azure.WithAPIVersion(cfg.APIVersion))
	}

	if cfg.Poll.Interval > 0 {
		options = append(options, azure.WithPollInterval(cfg.Poll.Interval))
	}

	if cfg.Poll.Timeout > 0 {
		options = append(options, azure.WithPollTimeout(cfg.Poll.Timeout))
	}

	if cfg.Poll.Retries != nil {
		options = append(options, azure.WithPollRetries(*cfg.Poll.Retries))
	}

	if cfg.RequestTimeout > 0 {
		options = append(options, azure.WithRequestTimeout(cfg.RequestTimeout))
	}

	return azure.New(cfg.URL, options...)
}

func parseInputKind(val string) (avatar.InputKind, error) {
	switch strings.ToLower(val) {
	case "":
		return "", nil

	case "ssml":
		return avatar.InputKindSSML, nil

	case "plaintext", "plain_text", "text":
		return avatar.InputKindPlainText, nil
	}

	return "", fmt.Errorf("%w: invalid input kind: %s", avatar.ErrConfiguration, val)
}
