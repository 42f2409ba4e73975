package msauth

import (
	"context"
	"fmt"

	"ai-hub-be/internal/pkg/apperror"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider yields bearer tokens for a named scope set. The cached token
// source gives silent reacquisition; an expired cache falls back to a fresh
// fetch transparently. The caller sees both as a single opaque call.
type TokenProvider interface {
	AcquireToken(ctx context.Context) (string, error)
}

type clientCredentialsProvider struct {
	source oauth2.TokenSource
}

// NewClientCredentialsProvider builds a token provider against the Microsoft
// identity platform for the given tenant and scopes.
func NewClientCredentialsProvider(clientID, clientSecret, tenantID string, scopes []string) (TokenProvider, error) {
	if clientID == "" || clientSecret == "" || tenantID == "" {
		return nil, apperror.New(apperror.KindAuth, "identity provider is not configured")
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID),
		Scopes:       scopes,
	}

	return &clientCredentialsProvider{
		source: cfg.TokenSource(context.Background()),
	}, nil
}

func (p *clientCredentialsProvider) AcquireToken(ctx context.Context) (string, error) {
	token, err := p.source.Token()
	if err != nil {
		return "", apperror.Wrap(apperror.KindAuth, "token acquisition failed", err)
	}
	return token.AccessToken, nil
}
