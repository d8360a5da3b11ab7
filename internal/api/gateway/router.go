package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/recallist/recallist-server/internal/api/gateway/handler"
	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/model"
)

// Router dispatches API Gateway HTTP events to item handlers. It expects a
// request authorizer in front of it: identity arrives through the request's
// authorizer context, and requests without one are rejected with 401 before
// any handler runs.
type Router struct {
	items  *handler.Item
	logger *logger.Logger
}

// New creates a Router over the given item service.
func New(itemService handler.ItemService, logger *logger.Logger) *Router {
	return &Router{
		items:  handler.NewItem(itemService, logger),
		logger: logger,
	}
}

// Handle is the Lambda entrypoint for API requests. It establishes the
// request correlation ID, resolves the caller's identity from the
// authorizer context, routes the request, and logs start and completion.
func (r *Router) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	requestID := req.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = model.WithRequestID(ctx, requestID)

	method := req.RequestContext.HTTP.Method
	path := req.RawPath
	log := r.logger.WithContext(ctx)

	start := time.Now()
	log.Info("incoming request", "method", method, "path", path)

	resp := r.route(ctx, method, path, req)

	log.Info("completed request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	return resp, nil
}

func (r *Router) route(ctx context.Context, method, path string, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	userID, ok := currentUserID(req)
	if !ok {
		return handler.Unauthorized()
	}
	ctx = model.WithUserID(ctx, userID)

	segments := splitPath(path)
	if len(segments) > 0 && segments[0] == "gpt" {
		return r.routeGPT(ctx, method, segments[1:], req)
	}

	switch {
	case method == http.MethodPost && matches(segments, "item"):
		return r.items.Create(ctx, req.Body, req.IsBase64Encoded)
	case method == http.MethodGet && matches(segments, "items"):
		return r.items.List(ctx)
	case method == http.MethodGet && matches(segments, "item", "random"):
		return r.items.Random(ctx)
	case method == http.MethodGet && matchesItemText(segments):
		return r.items.Get(ctx, pathParam(segments[1]))
	case method == http.MethodPatch && matchesItemText(segments):
		return r.items.Resolve(ctx, pathParam(segments[1]))
	case method == http.MethodDelete && matchesItemText(segments):
		return r.items.Delete(ctx, pathParam(segments[1]))
	default:
		return handler.NotFoundRoute()
	}
}

// routeGPT serves the GET-only alias surface for integrations that cannot
// issue non-GET requests. Mutations are expressed as path suffixes and the
// item text for creation arrives as a query parameter.
func (r *Router) routeGPT(ctx context.Context, method string, segments []string, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	if method != http.MethodGet {
		return handler.NotFoundRoute()
	}

	switch {
	case matches(segments, "items"):
		return r.items.List(ctx)
	case matches(segments, "item", "random"):
		return r.items.Random(ctx)
	case matches(segments, "item", "add"):
		return r.items.CreateFromText(ctx, req.QueryStringParameters["item"])
	case matchesItemText(segments):
		return r.items.Get(ctx, pathParam(segments[1]))
	case len(segments) == 3 && segments[0] == "item" && segments[2] == "delete":
		return r.items.Delete(ctx, pathParam(segments[1]))
	case len(segments) == 3 && segments[0] == "item" && segments[2] == "resolve":
		return r.items.Resolve(ctx, pathParam(segments[1]))
	default:
		return handler.NotFoundRoute()
	}
}

// currentUserID extracts the caller identity set by the request authorizer,
// falling back to Cognito JWT-authorizer claims when the route is fronted
// by the JWT authorizer instead.
func currentUserID(req events.APIGatewayV2HTTPRequest) (string, bool) {
	authz := req.RequestContext.Authorizer
	if authz == nil {
		return "", false
	}

	if authz.Lambda != nil {
		if userID, ok := authz.Lambda["user_id"].(string); ok && userID != "" {
			return userID, true
		}
	}

	if authz.JWT != nil {
		if sub := authz.JWT.Claims["sub"]; sub != "" {
			return sub, true
		}
	}

	return "", false
}

func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func matches(segments []string, want ...string) bool {
	if len(segments) != len(want) {
		return false
	}
	for i, segment := range want {
		if segments[i] != segment {
			return false
		}
	}
	return true
}

// matchesItemText matches /item/{text} where {text} is not a sub-resource
// keyword already handled by an earlier route.
func matchesItemText(segments []string) bool {
	return len(segments) == 2 && segments[0] == "item" && segments[1] != "random" && segments[1] != "add"
}

func pathParam(segment string) string {
	unescaped, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return unescaped
}
