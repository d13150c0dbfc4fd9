package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/adrianliechti/avatar/pkg/auth"
	"github.com/adrianliechti/avatar/pkg/auth/azure"
	"github.com/adrianliechti/avatar/pkg/auth/oidc"
	"github.com/adrianliechti/avatar/pkg/auth/static"
	"github.com/adrianliechti/avatar/pkg/avatar"
)

type credentialConfig struct {
	Type string `yaml:"type"`

	Token  string `yaml:"token"`
	Region string `yaml:"region"`

	TenantID string   `yaml:"tenant_id"`
	Scopes   []string `yaml:"scopes"`

	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

func createCredential(cfg credentialConfig) (auth.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "key", "static":
		return staticCredential(cfg)

	case "azure", "entra", "managed_identity":
		return azureCredential(cfg)

	case "oidc":
		return oidcCredential(cfg)

	default:
		return nil, fmt.Errorf("%w: invalid credential type: %s", avatar.ErrConfiguration, cfg.Type)
	}
}

func staticCredential(cfg credentialConfig) (auth.Provider, error) {
	var options []static.Option

	if cfg.Region != "" {
		options = append(options, static.WithRegion(cfg.Region))
	}

	return static.New(cfg.Token, options...)
}

func azureCredential(cfg credentialConfig) (auth.Provider, error) {
	var options []azure.Option

	if len(cfg.Scopes) > 0 {
		options = append(options, azure.WithScopes(cfg.Scopes...))
	}

	if cfg.TenantID != "" {
		options = append(options, azure.WithTenantID(cfg.TenantID))
	}

	return azure.NewDefault(options...)
}

func oidcCredential(cfg credentialConfig) (auth.Provider, error) {
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("%w: missing oidc issuer", avatar.ErrConfiguration)
	}

	return oidc.New(context.Background(), cfg.Issuer, cfg.ClientID, cfg.ClientSecret, cfg.Scopes...)
}
