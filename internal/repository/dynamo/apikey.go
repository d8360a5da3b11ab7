package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/recallist/recallist-server/internal/model"
)

const apiKeyAttr = "api_key"

var _ model.APIKeyStore = (*APIKeyRepository)(nil)

// APIKeyRepository is a DynamoDB-backed model.APIKeyStore. The table's
// partition key is the API key itself with the user ID as range key, so a
// lookup is a single-partition query, never a table scan.
type APIKeyRepository struct {
	db        *Connection
	tableName string
}

// NewAPIKeyRepository creates an API-key repository over the given table.
func NewAPIKeyRepository(db *Connection, tableName string) *APIKeyRepository {
	return &APIKeyRepository{
		db:        db,
		tableName: tableName,
	}
}

// GetUserID resolves an API key to its mapped user ID, or model.ErrNotFound
// if the key is unknown. A key maps to at most one user.
func (r *APIKeyRepository) GetUserID(ctx context.Context, apiKey string) (string, error) {
	input := &dynamodb.QueryInput{
		TableName: &r.tableName,
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":key": &dynamodbtypes.AttributeValueMemberS{Value: apiKey},
		},
		KeyConditionExpression: aws.String(apiKeyAttr + " = :key"),
		ProjectionExpression:   aws.String(userIDAttr),
		Limit:                  aws.Int32(1),
	}

	output, err := r.db.client.Query(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to query DynamoDB table %s: %w", r.tableName, err)
	}
	if len(output.Items) == 0 {
		return "", model.ErrNotFound
	}

	userID := getStringValue(output.Items[0][userIDAttr])
	if userID == "" {
		return "", model.ErrNotFound
	}

	return userID, nil
}
