package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/recallist/recallist-server/internal/model"
)

// Items table attribute names. The table's composite primary key is
// (user_id, item): the partition key scopes every operation to one user, so
// cross-user access is impossible by construction.
const (
	userIDAttr       = "user_id"
	itemAttr         = "item"
	displayItemAttr  = "display_item"
	statusAttr       = "status"
	createdDateAttr  = "createdDate"
	resolvedDateAttr = "resolutionDate"
)

var _ model.ItemStore = (*ItemRepository)(nil)

// ItemRepository is a DynamoDB-backed model.ItemStore.
type ItemRepository struct {
	db        *Connection
	tableName string
}

// NewItemRepository creates an item repository over the given table.
func NewItemRepository(db *Connection, tableName string) *ItemRepository {
	return &ItemRepository{
		db:        db,
		tableName: tableName,
	}
}

// Create writes the item only if no record with the same (user_id, item)
// key exists. The existence check and the write are one conditional put, so
// concurrent creates of the same normalized key cannot race.
func (r *ItemRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	input := &dynamodb.PutItemInput{
		TableName:           &r.tableName,
		Item:                itemAttributes(item),
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	}

	if _, err := r.db.client.PutItem(ctx, input); err != nil {
		var condErr *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return model.Item{}, model.ErrConflict
		}
		return model.Item{}, fmt.Errorf("failed to put item to DynamoDB table %s: %w", r.tableName, err)
	}

	return item, nil
}

func (r *ItemRepository) Get(ctx context.Context, userID, key string) (model.Item, error) {
	input := &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key:       itemKey(userID, key),
	}

	output, err := r.db.client.GetItem(ctx, input)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to get item from DynamoDB table %s: %w", r.tableName, err)
	}
	if len(output.Item) == 0 {
		return model.Item{}, model.ErrNotFound
	}

	return itemFromAttributes(output.Item)
}

// ListByUserID queries the user's partition, following LastEvaluatedKey so
// the caller always receives the complete set in one logical response.
func (r *ItemRepository) ListByUserID(ctx context.Context, userID string) ([]model.Item, error) {
	input := &dynamodb.QueryInput{
		TableName: &r.tableName,
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":uid": &dynamodbtypes.AttributeValueMemberS{Value: userID},
		},
		KeyConditionExpression: aws.String(userIDAttr + " = :uid"),
	}

	var items []model.Item

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := r.db.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB table %s: %w", r.tableName, err)
		}

		for _, attrs := range output.Items {
			item, err := itemFromAttributes(attrs)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		if output.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return items, nil
}

// Resolve marks the item RESOLVED with a single conditional update keyed on
// existence, and returns the updated record. A repeated resolve succeeds and
// re-stamps the resolution date; the status stays RESOLVED.
func (r *ItemRepository) Resolve(ctx context.Context, userID, key string, resolvedAt time.Time) (model.Item, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:           &r.tableName,
		Key:                 itemKey(userID, key),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
		UpdateExpression:    aws.String("SET #s = :resolved, " + resolvedDateAttr + " = :ts"),
		ExpressionAttributeNames: map[string]string{
			"#s": statusAttr,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":resolved": &dynamodbtypes.AttributeValueMemberS{Value: string(model.ItemStatusResolved)},
			":ts":       &dynamodbtypes.AttributeValueMemberS{Value: resolvedAt.Format(time.RFC3339Nano)},
		},
		ReturnValues: dynamodbtypes.ReturnValueAllNew,
	}

	output, err := r.db.client.UpdateItem(ctx, input)
	if err != nil {
		var condErr *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to update item in DynamoDB table %s: %w", r.tableName, err)
	}

	return itemFromAttributes(output.Attributes)
}

// Delete removes the item only if it exists, so absence is reported rather
// than silently succeeding.
func (r *ItemRepository) Delete(ctx context.Context, userID, key string) error {
	input := &dynamodb.DeleteItemInput{
		TableName:           &r.tableName,
		Key:                 itemKey(userID, key),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
	}

	if _, err := r.db.client.DeleteItem(ctx, input); err != nil {
		var condErr *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete item from DynamoDB table %s: %w", r.tableName, err)
	}

	return nil
}

func itemKey(userID, key string) map[string]dynamodbtypes.AttributeValue {
	return map[string]dynamodbtypes.AttributeValue{
		userIDAttr: &dynamodbtypes.AttributeValueMemberS{Value: userID},
		itemAttr:   &dynamodbtypes.AttributeValueMemberS{Value: key},
	}
}

func itemAttributes(item model.Item) map[string]dynamodbtypes.AttributeValue {
	attributes := map[string]dynamodbtypes.AttributeValue{
		userIDAttr:      &dynamodbtypes.AttributeValueMemberS{Value: item.UserID},
		itemAttr:        &dynamodbtypes.AttributeValueMemberS{Value: item.Key},
		displayItemAttr: &dynamodbtypes.AttributeValueMemberS{Value: item.DisplayText},
		statusAttr:      &dynamodbtypes.AttributeValueMemberS{Value: string(item.Status)},
		createdDateAttr: &dynamodbtypes.AttributeValueMemberS{Value: item.CreatedDate.Format(time.RFC3339Nano)},
	}

	if item.ResolvedDate != nil {
		attributes[resolvedDateAttr] = &dynamodbtypes.AttributeValueMemberS{Value: item.ResolvedDate.Format(time.RFC3339Nano)}
	}

	return attributes
}

func itemFromAttributes(attrs map[string]dynamodbtypes.AttributeValue) (model.Item, error) {
	item := model.Item{
		UserID:      getStringValue(attrs[userIDAttr]),
		Key:         getStringValue(attrs[itemAttr]),
		DisplayText: getStringValue(attrs[displayItemAttr]),
		Status:      model.ItemStatus(getStringValue(attrs[statusAttr])),
	}

	created, err := parseTimeAttr(attrs[createdDateAttr])
	if err != nil {
		return model.Item{}, fmt.Errorf("invalid %s attribute: %w", createdDateAttr, err)
	}
	if created != nil {
		item.CreatedDate = *created
	}

	resolved, err := parseTimeAttr(attrs[resolvedDateAttr])
	if err != nil {
		return model.Item{}, fmt.Errorf("invalid %s attribute: %w", resolvedDateAttr, err)
	}
	item.ResolvedDate = resolved

	return item, nil
}

func parseTimeAttr(attr dynamodbtypes.AttributeValue) (*time.Time, error) {
	value := getStringValue(attr)
	if value == "" {
		return nil, nil
	}

	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, err
	}

	return &ts, nil
}

// getStringValue extracts the string value from a DynamoDB AttributeValue.
// It returns an empty string if the AttributeValue is not of type
// AttributeValueMemberS.
func getStringValue(attr dynamodbtypes.AttributeValue) string {
	if attrValue, ok := attr.(*dynamodbtypes.AttributeValueMemberS); ok {
		return attrValue.Value
	}

	return ""
}
