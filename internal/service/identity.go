package service

import (
	"context"
	"strings"

	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/model"
	"github.com/recallist/recallist-server/internal/token"
)

// TokenParser extracts identity claims from bearer tokens.
type TokenParser interface {
	Parse(tokenString string) (token.Claims, error)
}

// Identity resolves a request's credential material into exactly one user
// identity, or denies. Resolution is stateless: every request is resolved
// independently with no caching between requests.
type Identity struct {
	tokens       TokenParser
	apiKeys      model.APIKeyStore
	issuerPrefix string
	logger       *logger.Logger
}

// NewIdentity creates an identity resolver. An empty issuerPrefix disables
// the issuer allow-list check on bearer tokens.
func NewIdentity(tokens TokenParser, apiKeys model.APIKeyStore, issuerPrefix string, logger *logger.Logger) *Identity {
	return &Identity{
		tokens:       tokens,
		apiKeys:      apiKeys,
		issuerPrefix: issuerPrefix,
		logger:       logger,
	}
}

// Resolve tries the bearer-token path first, then the API-key path. The
// first path that produces a valid identity wins. Every failure mode
// (missing credentials, malformed token, issuer mismatch, unknown key, or
// a store error during lookup) results in model.ErrUnauthorized: the
// resolver fails closed and never surfaces lookup errors to the caller.
func (s *Identity) Resolve(ctx context.Context, authHeader, apiKeyParam string) (model.Identity, error) {
	if tokenString := bearerToken(authHeader); tokenString != "" {
		claims, err := s.tokens.Parse(tokenString)
		if err == nil && s.issuerAllowed(claims.Issuer) {
			return model.Identity{UserID: claims.Subject, AuthType: model.AuthTypeCognito}, nil
		}
	}

	// The raw header value doubles as the API key; GET-only integrations
	// may pass the key as a query parameter instead.
	apiKey := authHeader
	if apiKey == "" {
		apiKey = apiKeyParam
	}
	if apiKey == "" {
		return model.Identity{}, model.ErrUnauthorized
	}

	userID, err := s.apiKeys.GetUserID(ctx, apiKey)
	if err != nil {
		s.logger.WithContext(ctx).Debug("API key lookup failed", "error", err)
		return model.Identity{}, model.ErrUnauthorized
	}

	return model.Identity{UserID: userID, AuthType: model.AuthTypeAPIKey}, nil
}

func (s *Identity) issuerAllowed(issuer string) bool {
	if s.issuerPrefix == "" {
		return true
	}
	return strings.HasPrefix(issuer, s.issuerPrefix)
}

func bearerToken(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
