package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/recallist/recallist-server/internal/model"
)

type errorBody struct {
	Detail string `json:"detail"`
}

// handleError maps semantic outcomes to transport status codes. Anything
// not explicitly classified is an internal error with a generic body.
func handleError(err error) events.APIGatewayV2HTTPResponse {
	switch {
	case errors.Is(err, model.ErrEmptyItem):
		return respond(http.StatusBadRequest, errorBody{Detail: "Item text is required"})
	case errors.Is(err, model.ErrUnauthorized):
		return respond(http.StatusUnauthorized, errorBody{Detail: "Unauthorized"})
	case errors.Is(err, model.ErrNotFound):
		return respond(http.StatusNotFound, errorBody{Detail: "Item not found"})
	case errors.Is(err, model.ErrConflict):
		return respond(http.StatusConflict, errorBody{Detail: "Item already exists"})
	default:
		return respond(http.StatusInternalServerError, errorBody{Detail: "Internal Server Error"})
	}
}

// Unauthorized is the response for requests with no resolved identity.
func Unauthorized() events.APIGatewayV2HTTPResponse {
	return handleError(model.ErrUnauthorized)
}

// NotFoundRoute is the response for paths outside the API surface.
func NotFoundRoute() events.APIGatewayV2HTTPResponse {
	return respond(http.StatusNotFound, errorBody{Detail: "Not Found"})
}

func respond(statusCode int, payload any) events.APIGatewayV2HTTPResponse {
	if payload == nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: statusCode}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"detail":"Internal Server Error"}`,
		}
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
