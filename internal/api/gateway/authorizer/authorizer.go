package authorizer

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/model"
)

// IdentityResolver resolves request credentials into one user identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, authHeader, apiKeyParam string) (model.Identity, error)
}

// Handler is the REQUEST-authorizer entrypoint. It runs the identity
// resolver against the inbound credential material and answers with an IAM
// Allow policy carrying the resolved user, or a Deny policy. Denials are
// returned as policies, not handler errors: a handler error would surface
// as a gateway failure instead of a clean 403.
type Handler struct {
	identity IdentityResolver
	logger   *logger.Logger
}

// New creates a new authorizer Handler.
func New(identity IdentityResolver, logger *logger.Logger) *Handler {
	return &Handler{
		identity: identity,
		logger:   logger,
	}
}

// Handle authorizes a single request. Header names are matched
// case-insensitively; the API key may arrive via the authorization header
// or the api_key query parameter.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayCustomAuthorizerRequestTypeRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	requestID := event.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = model.WithRequestID(ctx, requestID)

	authHeader := headerValue(event.Headers, "authorization")
	apiKeyParam := event.QueryStringParameters["api_key"]

	identity, err := h.identity.Resolve(ctx, authHeader, apiKeyParam)
	if err != nil {
		h.logger.WithContext(ctx).Info("denying request", "path", event.Path)
		return denyPolicy(), nil
	}

	h.logger.WithContext(ctx).Info("allowing request",
		"path", event.Path,
		"auth_type", string(identity.AuthType))

	return allowPolicy(identity), nil
}

func allowPolicy(identity model.Identity) events.APIGatewayCustomAuthorizerResponse {
	principalID := "apiKeyUser"
	if identity.AuthType == model.AuthTypeCognito {
		principalID = "cognitoUser"
	}

	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   "Allow",
					Resource: []string{"*"},
				},
			},
		},
		// Downstream handlers read the unified user_id from the
		// authorizer context; auth_type is observability only.
		Context: map[string]any{
			"user_id":   identity.UserID,
			"auth_type": string(identity.AuthType),
		},
	}
}

func denyPolicy() events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: "anonymous",
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   "Deny",
					Resource: []string{"*"},
				},
			},
		},
	}
}

func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}
