package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/model"
	"github.com/recallist/recallist-server/internal/token"
)

// MockAPIKeyStore mocks the APIKeyStore interface
type MockAPIKeyStore struct {
	mock.Mock
}

func (m *MockAPIKeyStore) GetUserID(ctx context.Context, apiKey string) (string, error) {
	args := m.Called(ctx, apiKey)
	return args.String(0), args.Error(1)
}

const testIssuerPrefix = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_abc123"

func cognitoToken(t *testing.T, sub, iss string) string {
	t.Helper()

	claims := jwt.MapClaims{}
	if sub != "" {
		claims["sub"] = sub
	}
	if iss != "" {
		claims["iss"] = iss
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tokenString
}

func TestIdentityService_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  func(t *testing.T) string
		apiKeyParam string
		mockSetup   func(*MockAPIKeyStore)
		want        model.Identity
		wantErr     error
	}{
		{
			name: "valid bearer token",
			authHeader: func(t *testing.T) string {
				return "Bearer " + cognitoToken(t, "cognito-user-1", testIssuerPrefix)
			},
			want: model.Identity{UserID: "cognito-user-1", AuthType: model.AuthTypeCognito},
		},
		{
			name: "bearer scheme is case-insensitive",
			authHeader: func(t *testing.T) string {
				return "bearer " + cognitoToken(t, "cognito-user-1", testIssuerPrefix)
			},
			want: model.Identity{UserID: "cognito-user-1", AuthType: model.AuthTypeCognito},
		},
		{
			name: "issuer mismatch falls through to API key lookup",
			authHeader: func(t *testing.T) string {
				return "Bearer " + cognitoToken(t, "cognito-user-1", "https://evil.example.com/pool")
			},
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, mock.AnythingOfType("string")).Return("", model.ErrNotFound)
			},
			wantErr: model.ErrUnauthorized,
		},
		{
			name: "malformed bearer token falls through to API key lookup",
			authHeader: func(t *testing.T) string {
				return "Bearer not-a-token"
			},
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, "Bearer not-a-token").Return("", model.ErrNotFound)
			},
			wantErr: model.ErrUnauthorized,
		},
		{
			name: "raw header value as API key",
			authHeader: func(t *testing.T) string {
				return "key-abc123"
			},
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, "key-abc123").Return("key-user-1", nil)
			},
			want: model.Identity{UserID: "key-user-1", AuthType: model.AuthTypeAPIKey},
		},
		{
			name:        "API key from query parameter",
			authHeader:  func(t *testing.T) string { return "" },
			apiKeyParam: "key-abc123",
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, "key-abc123").Return("key-user-1", nil)
			},
			want: model.Identity{UserID: "key-user-1", AuthType: model.AuthTypeAPIKey},
		},
		{
			name: "header takes precedence over query parameter",
			authHeader: func(t *testing.T) string {
				return "key-from-header"
			},
			apiKeyParam: "key-from-query",
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, "key-from-header").Return("key-user-1", nil)
			},
			want: model.Identity{UserID: "key-user-1", AuthType: model.AuthTypeAPIKey},
		},
		{
			name:       "unknown API key",
			authHeader: func(t *testing.T) string { return "key-unknown" },
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, "key-unknown").Return("", model.ErrNotFound)
			},
			wantErr: model.ErrUnauthorized,
		},
		{
			name:       "store error fails closed",
			authHeader: func(t *testing.T) string { return "key-abc123" },
			mockSetup: func(store *MockAPIKeyStore) {
				store.On("GetUserID", mock.Anything, "key-abc123").Return("", errors.New("query failed"))
			},
			wantErr: model.ErrUnauthorized,
		},
		{
			name:       "no credentials",
			authHeader: func(t *testing.T) string { return "" },
			wantErr:    model.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockAPIKeyStore{}
			if tt.mockSetup != nil {
				tt.mockSetup(mockStore)
			}

			service := NewIdentity(token.NewUnverified(), mockStore, testIssuerPrefix, logger.New(0))

			identity, err := service.Resolve(context.Background(), tt.authHeader(t), tt.apiKeyParam)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, identity)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestIdentityService_Resolve_NoIssuerConfigured(t *testing.T) {
	mockStore := &MockAPIKeyStore{}
	service := NewIdentity(token.NewUnverified(), mockStore, "", logger.New(0))

	authHeader := "Bearer " + cognitoToken(t, "cognito-user-1", "https://any-issuer.example.com")

	identity, err := service.Resolve(context.Background(), authHeader, "")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: "cognito-user-1", AuthType: model.AuthTypeCognito}, identity)

	mockStore.AssertExpectations(t)
}
