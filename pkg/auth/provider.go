package auth

import (
	"context"
	"net/http"
)

// Provider produces the headers that authorize a single request against the
// speech service.
type Provider interface {
	Headers(ctx context.Context) (http.Header, error)
}

const (
	HeaderSubscriptionKey    = "Ocp-Apim-Subscription-Key"
	HeaderSubscriptionRegion = "Ocp-Apim-Subscription-Region"

	HeaderAuthorization = "Authorization"
)

func Bearer(token string) http.Header {
	h := make(http.Header)
	h.Set(HeaderAuthorization, "Bearer "+token)

	return h
}
