package static

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/adrianliechti/avatar/pkg/auth"
	"github.com/adrianliechti/avatar/pkg/avatar"
)

var _ auth.Provider = (*Provider)(nil)

type Provider struct {
	key    string
	region string
}

type Option func(*Provider)

func WithRegion(region string) Option {
	return func(p *Provider) {
		p.region = region
	}
}

func New(key string, options ...Option) (*Provider, error) {
	key = strings.TrimSpace(key)

	if key == "" {
		return nil, fmt.Errorf("%w: missing subscription key", avatar.ErrConfiguration)
	}

	p := &Provider{
		key: key,
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

func (p *Provider) Headers(ctx context.Context) (http.Header, error) {
	h := make(http.Header)
	h.Set(auth.HeaderSubscriptionKey, p.key)

	if p.region != "" {
		h.Set(auth.HeaderSubscriptionRegion, p.region)
	}

	return h, nil
}
