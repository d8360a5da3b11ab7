package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallist/recallist-server/internal/model"
)

func TestAPIKeyRepository_GetUserID(t *testing.T) {
	api := &mockAPI{
		query: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			assert.Equal(t, "keys_test", *params.TableName)
			assert.Equal(t, "api_key = :key", *params.KeyConditionExpression)
			assert.Equal(t, "user_id", *params.ProjectionExpression)
			assert.Equal(t, int32(1), *params.Limit)
			assert.Equal(t, "key-abc123", getStringValue(params.ExpressionAttributeValues[":key"]))

			return &dynamodb.QueryOutput{
				Items: []map[string]dynamodbtypes.AttributeValue{
					{"user_id": &dynamodbtypes.AttributeValueMemberS{Value: "user-1"}},
				},
			}, nil
		},
	}

	repo := NewAPIKeyRepository(NewConnectionWithAPI(api), "keys_test")

	userID, err := repo.GetUserID(context.Background(), "key-abc123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAPIKeyRepository_GetUserID_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		items []map[string]dynamodbtypes.AttributeValue
	}{
		{
			name:  "unknown key",
			items: nil,
		},
		{
			name: "record without user id",
			items: []map[string]dynamodbtypes.AttributeValue{
				{"api_key": &dynamodbtypes.AttributeValueMemberS{Value: "key-abc123"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{
				query: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
					return &dynamodb.QueryOutput{Items: tt.items}, nil
				},
			}

			repo := NewAPIKeyRepository(NewConnectionWithAPI(api), "keys_test")

			_, err := repo.GetUserID(context.Background(), "key-abc123")
			assert.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func TestAPIKeyRepository_GetUserID_RequestError(t *testing.T) {
	api := &mockAPI{
		query: func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return nil, errors.New("query failed")
		},
	}

	repo := NewAPIKeyRepository(NewConnectionWithAPI(api), "keys_test")

	_, err := repo.GetUserID(context.Background(), "key-abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys_test")
	assert.NotErrorIs(t, err, model.ErrNotFound)
}
