package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bookbuddy/server/internal/domain"
)

// ShelfRepo provides typed DynamoDB operations for the shelves table.
// The (user_id, book_id) composite primary key is the per-account uniqueness
// guarantee for book associations.
type ShelfRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewShelfRepo(client *dynamodb.Client, tableName string) *ShelfRepo {
	return &ShelfRepo{client: client, tableName: tableName}
}

func (r *ShelfRepo) Put(ctx context.Context, e *domain.ShelfEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal shelf entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ShelfRepo) Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "book_id", bookID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("shelf entry not found: %w", domain.ErrNotFound)
	}
	var e domain.ShelfEntry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ShelfRepo) ListByUser(ctx context.Context, userID string) ([]domain.ShelfEntry, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var entries []domain.ShelfEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ShelfRepo) Update(ctx context.Context, userID, bookID string, set map[string]interface{}) error {
	set[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(set)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("user_id", userID, "book_id", bookID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// Delete removes the entry if present. Deleting an absent key is not an error.
func (r *ShelfRepo) Delete(ctx context.Context, userID, bookID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "book_id", bookID),
	})
	return err
}
