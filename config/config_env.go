package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/adrianliechti/avatar/pkg/avatar"
)

// FromEnvironment configures a single synthesizer from SPEECH_* variables.
func FromEnvironment() (*Config, error) {
	cfg := synthesizerConfig{
		Type: "azure",

		URL:    os.Getenv("SPEECH_ENDPOINT"),
		Token:  os.Getenv("SPEECH_KEY"),
		Region: os.Getenv("SPEECH_REGION"),

		APIVersion: os.Getenv("SPEECH_API_VERSION"),

		Voice:     os.Getenv("SPEECH_VOICE"),
		InputKind: os.Getenv("SPEECH_INPUT_KIND"),

		Avatar: avatarConfig{
			Character: os.Getenv("SPEECH_AVATAR_CHARACTER"),
			Style:     os.Getenv("SPEECH_AVATAR_STYLE"),

			BackgroundColor: os.Getenv("SPEECH_AVATAR_BACKGROUND_COLOR"),
		},
	}

	if val := os.Getenv("SPEECH_PASSWORDLESS"); val != "" {
		passwordless, err := strconv.ParseBool(val)

		if err != nil {
			return nil, fmt.Errorf("%w: invalid SPEECH_PASSWORDLESS: %s", avatar.ErrConfiguration, val)
		}

		if passwordless {
			cfg.Credential = &credentialConfig{
				Type: "azure",

				TenantID: os.Getenv("AZURE_TENANT_ID"),
			}
		}
	}

	var err error

	if cfg.Poll.Interval, err = getDuration("SPEECH_POLL_INTERVAL"); err != nil {
		return nil, err
	}

	if cfg.Poll.Timeout, err = getDuration("SPEECH_POLL_TIMEOUT"); err != nil {
		return nil, err
	}

	if val := os.Getenv("SPEECH_POLL_RETRIES"); val != "" {
		retries, err := strconv.Atoi(val)

		if err != nil {
			return nil, fmt.Errorf("%w: invalid SPEECH_POLL_RETRIES: %s", avatar.ErrConfiguration, val)
		}

		cfg.Poll.Retries = &retries
	}

	synthesizer, err := createSynthesizer("speech", cfg)

	if err != nil {
		return nil, err
	}

	c := &Config{}
	c.RegisterSynthesizer("speech", synthesizer)

	return c, nil
}

func getDuration(key string) (time.Duration, error) {
	val := os.Getenv(key)

	if val == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(val)

	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %s", avatar.ErrConfiguration, key, val)
	}

	return d, nil
}
