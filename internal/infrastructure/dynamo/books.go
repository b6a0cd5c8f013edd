package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bookbuddy/server/internal/domain"
)

// batchGetChunk is DynamoDB's BatchGetItem limit per request.
const batchGetChunk = 100

// BookRepo provides typed DynamoDB operations for the canonical books table.
type BookRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBookRepo(client *dynamodb.Client, tableName string) *BookRepo {
	return &BookRepo{client: client, tableName: tableName}
}

func (r *BookRepo) Put(ctx context.Context, b *domain.Book) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BookRepo) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("book_id", bookID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("book not found: %w", domain.ErrNotFound)
	}
	var b domain.Book
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByCatalogID resolves a canonical book by its external catalog id via GSI.
// This is the dedupe lookup: one catalog id, one record.
func (r *BookRepo) GetByCatalogID(ctx context.Context, catalogID string) (*domain.Book, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("catalog_id-index"),
		KeyConditionExpression: aws.String("catalog_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: catalogID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("book not found: %w", domain.ErrNotFound)
	}
	var b domain.Book
	if err := attributevalue.UnmarshalMap(out.Items[0], &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetMany batch-fetches books by id. Missing ids are silently absent from the
// result map.
func (r *BookRepo) GetMany(ctx context.Context, bookIDs []string) (map[string]*domain.Book, error) {
	books := make(map[string]*domain.Book, len(bookIDs))
	for start := 0; start < len(bookIDs); start += batchGetChunk {
		end := start + batchGetChunk
		if end > len(bookIDs) {
			end = len(bookIDs)
		}
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range bookIDs[start:end] {
			keys = append(keys, strKey("book_id", id))
		}
		out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tableName: {Keys: keys},
			},
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.Responses[r.tableName] {
			var b domain.Book
			if err := attributevalue.UnmarshalMap(item, &b); err != nil {
				return nil, err
			}
			books[b.BookID] = &b
		}
	}
	return books, nil
}

// AddUserRef adds userID to the book's informational back-reference set.
// ADD on a string set is idempotent, so retries after partial failures converge.
func (r *BookRepo) AddUserRef(ctx context.Context, bookID, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("book_id", bookID),
		UpdateExpression: aws.String("ADD " + fieldUserIDs + " :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
	})
	return err
}

// RemoveUserRef drops userID from the back-reference set. The book record
// itself is never deleted, even when the set empties out.
func (r *BookRepo) RemoveUserRef(ctx context.Context, bookID, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("book_id", bookID),
		UpdateExpression: aws.String("DELETE " + fieldUserIDs + " :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
	})
	return err
}
