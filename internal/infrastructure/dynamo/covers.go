package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/bookbuddy/server/internal/domain"
)

// CoverRepo stores cover image metadata, keyed (user_id, book_id) like the
// shelf entries the covers belong to.
type CoverRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCoverRepo(client *dynamodb.Client, tableName string) *CoverRepo {
	return &CoverRepo{client: client, tableName: tableName}
}

func (r *CoverRepo) Put(ctx context.Context, c *domain.Cover) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cover: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CoverRepo) Get(ctx context.Context, userID, bookID string) (*domain.Cover, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "book_id", bookID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("cover not found: %w", domain.ErrNotFound)
	}
	var c domain.Cover
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
