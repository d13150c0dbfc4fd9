package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/adrianliechti/avatar/pkg/avatar"
	"github.com/adrianliechti/avatar/pkg/avatar/azure"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

type speechService struct {
	mu sync.Mutex

	header http.Header
	body   azure.SynthesisRequest
}

func newSpeechService(t *testing.T) (*httptest.Server, *speechService) {
	s := &speechService{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPut {
			data, _ := io.ReadAll(r.Body)
			json.Unmarshal(data, &s.body)

			s.header = r.Header.Clone()

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"job-1","status":"NotStarted"}`))
			return
		}

		w.Write([]byte(`{"id":"job-1","status":"Succeeded","outputs":{"result":"https://x/result.mp4"}}`))
	}))

	t.Cleanup(server.Close)

	return server, s
}

func TestParse(t *testing.T) {
	server, service := newSpeechService(t)

	t.Setenv("TEST_SPEECH_URL", server.URL)
	t.Setenv("TEST_SPEECH_KEY", "secret")

	path := writeConfig(t, `
synthesizers:
  harry:
    type: azure
    url: ${TEST_SPEECH_URL}
    token: ${TEST_SPEECH_KEY}
    region: westeurope
    voice: en-US-AvaMultilingualNeural
    avatar:
      character: lisa
      style: casual-sitting
      background_color: "#00000000"
    poll:
      interval: 1ms
      timeout: 5s
      retries: 1
    limit: 10

  plain:
    url: ${TEST_SPEECH_URL}
    token: ${TEST_SPEECH_KEY}
    input_kind: plaintext
`)

	cfg, err := Parse(path)
	require.NoError(t, err)

	p, err := cfg.Synthesizer("")
	require.NoError(t, err)

	result, err := p.Synthesize(context.Background(), "Hello", nil)
	require.NoError(t, err)

	require.True(t, result.Succeeded())
	require.Equal(t, "https://x/result.mp4", result.URL.MustGet())

	require.Equal(t, "secret", service.header.Get("Ocp-Apim-Subscription-Key"))
	require.Equal(t, "westeurope", service.header.Get("Ocp-Apim-Subscription-Region"))

	require.Equal(t, "en-US-AvaMultilingualNeural", service.body.SynthesisConfig.Voice)
	require.Equal(t, "SSML", service.body.InputKind)
	require.Equal(t, "lisa", service.body.AvatarConfig.TalkingAvatarCharacter)
	require.Equal(t, "casual-sitting", service.body.AvatarConfig.TalkingAvatarStyle)
	require.Equal(t, "#00000000", service.body.AvatarConfig.BackgroundColor)
	require.Equal(t, "h264", service.body.AvatarConfig.VideoCodec)

	p, err = cfg.Synthesizer("plain")
	require.NoError(t, err)

	_, err = p.Synthesize(context.Background(), "Hello", nil)
	require.NoError(t, err)

	require.Equal(t, "PlainText", service.body.InputKind)
	require.Equal(t, "Hello", service.body.Inputs[0].Content)

	_, err = cfg.Synthesizer("missing")
	require.Error(t, err)
}

func TestParseMissingKey(t *testing.T) {
	path := writeConfig(t, `
synthesizers:
  speech:
    url: https://westeurope.api.cognitive.microsoft.com
`)

	_, err := Parse(path)
	require.ErrorIs(t, err, avatar.ErrConfiguration)
}

func TestParseMissingEndpoint(t *testing.T) {
	path := writeConfig(t, `
synthesizers:
  speech:
    token: secret
`)

	_, err := Parse(path)
	require.ErrorIs(t, err, avatar.ErrConfiguration)
}

func TestParseInvalidType(t *testing.T) {
	path := writeConfig(t, `
synthesizers:
  speech:
    type: unknown
    url: https://westeurope.api.cognitive.microsoft.com
    token: secret
`)

	_, err := Parse(path)
	require.ErrorIs(t, err, avatar.ErrConfiguration)
}

func TestParseUnknownField(t *testing.T) {
	path := writeConfig(t, `
speakers: {}
`)

	_, err := Parse(path)
	require.Error(t, err)
}

func TestFromEnvironment(t *testing.T) {
	server, service := newSpeechService(t)

	t.Setenv("SPEECH_ENDPOINT", server.URL)
	t.Setenv("SPEECH_KEY", "secret")
	t.Setenv("SPEECH_PASSWORDLESS", "false")
	t.Setenv("SPEECH_AVATAR_CHARACTER", "lori")
	t.Setenv("SPEECH_POLL_INTERVAL", "1ms")

	cfg, err := FromEnvironment()
	require.NoError(t, err)

	p, err := cfg.Synthesizer("")
	require.NoError(t, err)

	result, err := p.Synthesize(context.Background(), "مرحبا", nil)
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	require.Equal(t, "secret", service.header.Get("Ocp-Apim-Subscription-Key"))
	require.Equal(t, azure.DefaultVoice, service.body.SynthesisConfig.Voice)
	require.Equal(t, "lori", service.body.AvatarConfig.TalkingAvatarCharacter)
}

func TestFromEnvironmentMissing(t *testing.T) {
	t.Setenv("SPEECH_ENDPOINT", "")
	t.Setenv("SPEECH_KEY", "")

	_, err := FromEnvironment()
	require.ErrorIs(t, err, avatar.ErrConfiguration)

	t.Setenv("SPEECH_ENDPOINT", "https://westeurope.api.cognitive.microsoft.com")

	_, err = FromEnvironment()
	require.ErrorIs(t, err, avatar.ErrConfiguration)
}

func TestFromEnvironmentInvalid(t *testing.T) {
	t.Setenv("SPEECH_ENDPOINT", "https://westeurope.api.cognitive.microsoft.com")
	t.Setenv("SPEECH_KEY", "secret")

	t.Setenv("SPEECH_PASSWORDLESS", "maybe")

	_, err := FromEnvironment()
	require.ErrorIs(t, err, avatar.ErrConfiguration)

	t.Setenv("SPEECH_PASSWORDLESS", "")
	t.Setenv("SPEECH_POLL_INTERVAL", "soon")

	_, err = FromEnvironment()
	require.ErrorIs(t, err, avatar.ErrConfiguration)
}
