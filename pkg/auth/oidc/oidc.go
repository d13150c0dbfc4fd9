package oidc

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/adrianliechti/avatar/pkg/auth"
	"github.com/adrianliechti/avatar/pkg/avatar"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var _ auth.Provider = (*Provider)(nil)

// Provider obtains bearer tokens through the client credentials grant of an
// OpenID Connect issuer. Tokens are reused until shortly before they expire.
type Provider struct {
	config *clientcredentials.Config

	mu    sync.Mutex
	token *oauth2.Token
}

func New(ctx context.Context, issuer, clientID, clientSecret string, scopes ...string) (*Provider, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("%w: missing issuer or client id", avatar.ErrConfiguration)
	}

	provider, err := oidc.NewProvider(ctx, issuer)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", avatar.ErrAuthentication, err)
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,

		TokenURL: provider.Endpoint().TokenURL,
		Scopes:   scopes,
	}

	return &Provider{
		config: cfg,
	}, nil
}

// Headers returns the cached token or fetches a new one bounded by ctx.
func (p *Provider) Headers(ctx context.Context) (http.Header, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.token.Valid() {
		token, err := p.config.Token(ctx)

		if err != nil {
			return nil, fmt.Errorf("%w: %w", avatar.ErrAuthentication, err)
		}

		p.token = token
	}

	return auth.Bearer(p.token.AccessToken), nil
}
