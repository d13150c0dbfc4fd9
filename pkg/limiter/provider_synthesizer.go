package limiter

import (
	"context"

	"github.com/adrianliechti/avatar/pkg/avatar"

	"golang.org/x/time/rate"
)

type Synthesizer interface {
	Limiter
	avatar.Provider
}

type limitedSynthesizer struct {
	limiter  *rate.Limiter
	provider avatar.Provider
}

func NewSynthesizer(l *rate.Limiter, p avatar.Provider) Synthesizer {
	return &limitedSynthesizer{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedSynthesizer) limiterSetup() {
}

func (p *limitedSynthesizer) Synthesize(ctx context.Context, input string, options *avatar.SynthesizeOptions) (*avatar.Synthesis, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.provider.Synthesize(ctx, input, options)
}
