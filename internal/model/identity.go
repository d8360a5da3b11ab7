package model

import "context"

// APIKeyStore resolves API keys to user IDs. Mappings are created
// out-of-band; the server only ever reads them.
type APIKeyStore interface {
	// GetUserID returns the user ID mapped to the API key, or ErrNotFound
	// if the key is unknown.
	GetUserID(ctx context.Context, apiKey string) (string, error)
}

// AuthType tags which credential path resolved a request's identity.
// It is carried for observability only.
type AuthType string

const (
	// AuthTypeCognito marks identities resolved from a Cognito bearer token.
	AuthTypeCognito AuthType = "cognito"
	// AuthTypeAPIKey marks identities resolved from an API-key lookup.
	AuthTypeAPIKey AuthType = "api_key"
)

// Identity is the authoritative result of resolving a request's credentials.
type Identity struct {
	UserID   string
	AuthType AuthType
}
