package azure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adrianliechti/avatar/pkg/auth"
	"github.com/adrianliechti/avatar/pkg/avatar"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const DefaultScope = "https://cognitiveservices.azure.com/.default"

var _ auth.Provider = (*Provider)(nil)

type Provider struct {
	credential azcore.TokenCredential

	scopes   []string
	tenantID string
}

type Option func(*Provider)

func WithScopes(scopes ...string) Option {
	return func(p *Provider) {
		p.scopes = scopes
	}
}

func WithTenantID(tenantID string) Option {
	return func(p *Provider) {
		p.tenantID = tenantID
	}
}

func New(credential azcore.TokenCredential, options ...Option) (*Provider, error) {
	if credential == nil {
		return nil, fmt.Errorf("%w: missing token credential", avatar.ErrConfiguration)
	}

	p := &Provider{
		credential: credential,

		scopes: []string{DefaultScope},
	}

	for _, option := range options {
		option(p)
	}

	if len(p.scopes) == 0 {
		p.scopes = []string{DefaultScope}
	}

	return p, nil
}

// NewDefault authenticates with the credential chain of the environment
// (environment variables, workload identity, managed identity, Azure CLI).
func NewDefault(options ...Option) (*Provider, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", avatar.ErrConfiguration, err)
	}

	return New(credential, options...)
}

func (p *Provider) Headers(ctx context.Context) (http.Header, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes:   p.scopes,
		TenantID: p.tenantID,
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", avatar.ErrAuthentication, err)
	}

	return auth.Bearer(token.Token), nil
}
