package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/model"
)

// ItemService defines business operations for recall-list items.
type ItemService interface {
	Create(ctx context.Context, userID, text string) (model.Item, error)
	Get(ctx context.Context, userID, text string) (model.Item, error)
	List(ctx context.Context, userID string) ([]model.Item, error)
	Random(ctx context.Context, userID string) (model.Item, error)
	Resolve(ctx context.Context, userID, text string) (model.Item, error)
	Delete(ctx context.Context, userID, text string) error
}

// Item handles API Gateway endpoints for items. Each method expects the
// resolved user ID in the request context; requests without one were not
// authenticated and are rejected before any service call.
type Item struct {
	itemService ItemService
	logger      *logger.Logger
}

// NewItem creates a new Item handler.
func NewItem(itemService ItemService, logger *logger.Logger) *Item {
	return &Item{
		itemService: itemService,
		logger:      logger,
	}
}

type createItemRequest struct {
	Item string `json:"item"`
}

type itemResponse struct {
	Item           string           `json:"item"`
	Status         model.ItemStatus `json:"status"`
	CreatedDate    time.Time        `json:"createdDate"`
	ResolutionDate *time.Time       `json:"resolutionDate,omitempty"`
}

type itemListResponse struct {
	Items []itemResponse `json:"items"`
}

// Create adds an item from a JSON request body.
func (h *Item) Create(ctx context.Context, rawBody string, isBase64 bool) events.APIGatewayV2HTTPResponse {
	body := rawBody
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(rawBody)
		if err != nil {
			return respond(http.StatusBadRequest, errorBody{Detail: "invalid request body"})
		}
		body = string(decoded)
	}

	var req createItemRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return respond(http.StatusBadRequest, errorBody{Detail: "invalid request body"})
	}

	return h.CreateFromText(ctx, req.Item)
}

// CreateFromText adds an item from raw text. Used directly by the GET-only
// alias, which passes the text as a query parameter.
func (h *Item) CreateFromText(ctx context.Context, text string) events.APIGatewayV2HTTPResponse {
	userID, ok := model.UserIDFromContext(ctx)
	if !ok {
		return handleError(model.ErrUnauthorized)
	}

	item, err := h.itemService.Create(ctx, userID, text)
	if err != nil {
		h.logError(ctx, "create item failed", err)
		return handleError(err)
	}

	return respond(http.StatusCreated, toItemResponse(item))
}

// List returns all of the user's items.
func (h *Item) List(ctx context.Context) events.APIGatewayV2HTTPResponse {
	userID, ok := model.UserIDFromContext(ctx)
	if !ok {
		return handleError(model.ErrUnauthorized)
	}

	items, err := h.itemService.List(ctx, userID)
	if err != nil {
		h.logError(ctx, "list items failed", err)
		return handleError(err)
	}

	resp := itemListResponse{Items: make([]itemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}

	return respond(http.StatusOK, resp)
}

// Random returns one random unresolved item.
func (h *Item) Random(ctx context.Context) events.APIGatewayV2HTTPResponse {
	userID, ok := model.UserIDFromContext(ctx)
	if !ok {
		return handleError(model.ErrUnauthorized)
	}

	item, err := h.itemService.Random(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logError(ctx, "random item failed", err)
		}
		return handleError(err)
	}

	return respond(http.StatusOK, toItemResponse(item))
}

// Get returns one item looked up case-insensitively by its text.
func (h *Item) Get(ctx context.Context, text string) events.APIGatewayV2HTTPResponse {
	userID, ok := model.UserIDFromContext(ctx)
	if !ok {
		return handleError(model.ErrUnauthorized)
	}

	item, err := h.itemService.Get(ctx, userID, text)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logError(ctx, "get item failed", err)
		}
		return handleError(err)
	}

	return respond(http.StatusOK, toItemResponse(item))
}

// Resolve marks an item RESOLVED and returns the updated record.
func (h *Item) Resolve(ctx context.Context, text string) events.APIGatewayV2HTTPResponse {
	userID, ok := model.UserIDFromContext(ctx)
	if !ok {
		return handleError(model.ErrUnauthorized)
	}

	item, err := h.itemService.Resolve(ctx, userID, text)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logError(ctx, "resolve item failed", err)
		}
		return handleError(err)
	}

	return respond(http.StatusOK, toItemResponse(item))
}

// Delete removes an item. Responds 204 on success and 404 when the item
// does not exist.
func (h *Item) Delete(ctx context.Context, text string) events.APIGatewayV2HTTPResponse {
	userID, ok := model.UserIDFromContext(ctx)
	if !ok {
		return handleError(model.ErrUnauthorized)
	}

	if err := h.itemService.Delete(ctx, userID, text); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logError(ctx, "delete item failed", err)
		}
		return handleError(err)
	}

	return respond(http.StatusNoContent, nil)
}

func (h *Item) logError(ctx context.Context, msg string, err error) {
	h.logger.WithContext(ctx).Error(msg, "error", err.Error())
}

func toItemResponse(item model.Item) itemResponse {
	return itemResponse{
		Item:           item.DisplayText,
		Status:         item.Status,
		CreatedDate:    item.CreatedDate,
		ResolutionDate: item.ResolvedDate,
	}
}
