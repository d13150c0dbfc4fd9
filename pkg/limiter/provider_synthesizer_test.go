package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/adrianliechti/avatar/pkg/avatar"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockSynthesizer struct {
	calls int
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, input string, options *avatar.SynthesizeOptions) (*avatar.Synthesis, error) {
	m.calls++

	return &avatar.Synthesis{
		ID:      "job-1",
		Outcome: avatar.OutcomeSucceeded,
	}, nil
}

func TestSynthesize(t *testing.T) {
	t.Run("passes through without limiter", func(t *testing.T) {
		mock := &mockSynthesizer{}
		p := NewSynthesizer(nil, mock)

		result, err := p.Synthesize(context.Background(), "hello", nil)
		require.NoError(t, err)
		require.Equal(t, "job-1", result.ID)
		require.Equal(t, 1, mock.calls)
	})

	t.Run("waits for the limiter", func(t *testing.T) {
		mock := &mockSynthesizer{}
		p := NewSynthesizer(rate.NewLimiter(rate.Limit(1), 1), mock)

		_, err := p.Synthesize(context.Background(), "hello", nil)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		// the burst is spent and the next token is a second away
		_, err = p.Synthesize(ctx, "hello", nil)
		require.Error(t, err)
		require.Equal(t, 1, mock.calls)
	})
}
