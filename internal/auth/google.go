package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

var ErrProviderDisabled = errors.New("oauth provider not configured")

// OAuthProfile is what the manager needs from an external identity.
type OAuthProfile struct {
	Email string
	Name  string
}

type IdentityProvider interface {
	Enabled() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (OAuthProfile, error)
}

// DisabledProvider is used when no OAuth credentials are configured.
type DisabledProvider struct{}

func (DisabledProvider) Enabled() bool { return false }
func (DisabledProvider) AuthCodeURL(string) string { return "" }
func (DisabledProvider) Exchange(context.Context, string) (OAuthProfile, error) {
	return OAuthProfile{}, ErrProviderDisabled
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type GoogleProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	config   oauth2.Config
}

// NewGoogleProvider runs OIDC discovery against Google. Failures are logged
// and yield a DisabledProvider so the rest of the server keeps working.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig, logger *slog.Logger) IdentityProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Info("GOOGLE_CLIENT_ID not set, Google login disabled")
		return DisabledProvider{}
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		logger.Error("failed to init Google OIDC provider", "error", err)
		return DisabledProvider{}
	}

	return &GoogleProvider{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}
}

func (g *GoogleProvider) Enabled() bool { return true }

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (g *GoogleProvider) Exchange(ctx context.Context, code string) (OAuthProfile, error) {
	if code == "" {
		return OAuthProfile{}, errors.New("missing authorization code")
	}
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return OAuthProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		idToken, err := g.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return OAuthProfile{}, fmt.Errorf("verify id token: %w", err)
		}
		if err := idToken.Claims(&claims); err != nil {
			return OAuthProfile{}, fmt.Errorf("id token claims: %w", err)
		}
	}

	if claims.Email == "" {
		info, err := g.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if err != nil {
			return OAuthProfile{}, fmt.Errorf("userinfo: %w", err)
		}
		claims.Email = info.Email
		if err := info.Claims(&claims); err != nil {
			return OAuthProfile{}, fmt.Errorf("userinfo claims: %w", err)
		}
	}

	return OAuthProfile{Email: claims.Email, Name: claims.Name}, nil
}
