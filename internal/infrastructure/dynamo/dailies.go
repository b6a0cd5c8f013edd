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

// skTerminator sorts after '#' but before nothing a date string can contain,
// closing a date's key range: every "<date>#<book_id>" key is < "<date>$".
const skTerminator = "$"

// DailyRepo provides typed DynamoDB operations for the dailies table.
// Entries live under the user's partition with sort key "<date>#<book_id>",
// so one PutItem is an atomic upsert for the (user, book, date) triple and
// date windows are contiguous key ranges.
type DailyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDailyRepo(client *dynamodb.Client, tableName string) *DailyRepo {
	return &DailyRepo{client: client, tableName: tableName}
}

// Upsert writes the entry, replacing any existing row with the same
// (user, date, book) key. Never a read-then-write: concurrent writers for the
// same key can only ever leave one row, last write winning.
func (r *DailyRepo) Upsert(ctx context.Context, d *domain.Daily) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal daily: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Delete removes the entry for (user, date, book) and reports whether a row
// actually existed. Absence is not an error.
func (r *DailyRepo) Delete(ctx context.Context, userID string, date domain.Date, bookID string) (bool, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          compositeKey("user_id", userID, "entry_key", domain.DailyKey(date, bookID)),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

// QueryWindow returns every entry with a date in [from, to] inclusive,
// newest first.
func (r *DailyRepo) QueryWindow(ctx context.Context, userID string, from, to domain.Date) ([]domain.Daily, error) {
	return r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :u AND entry_key BETWEEN :lo AND :hi"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u":  &types.AttributeValueMemberS{Value: userID},
			":lo": &types.AttributeValueMemberS{Value: string(from)},
			":hi": &types.AttributeValueMemberS{Value: string(to) + skTerminator},
		},
		ScanIndexForward: aws.Bool(false),
	})
}

// QueryAfter returns entries strictly after the given date, newest first.
// A zero-value after returns everything. When bookID is non-empty, results
// are restricted to that book.
func (r *DailyRepo) QueryAfter(ctx context.Context, userID string, after domain.Date, bookID string) ([]domain.Daily, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if after != "" {
		input.KeyConditionExpression = aws.String("user_id = :u AND entry_key > :after")
		input.ExpressionAttributeValues[":after"] = &types.AttributeValueMemberS{Value: string(after) + skTerminator}
	}
	if bookID != "" {
		input.FilterExpression = aws.String("book_id = :b")
		input.ExpressionAttributeValues[":b"] = &types.AttributeValueMemberS{Value: bookID}
	}
	return r.query(ctx, input)
}

// ListByBook returns every entry for one (user, book) pair, newest first.
func (r *DailyRepo) ListByBook(ctx context.Context, userID, bookID string) ([]domain.Daily, error) {
	return r.QueryAfter(ctx, userID, "", bookID)
}

func (r *DailyRepo) query(ctx context.Context, input *dynamodb.QueryInput) ([]domain.Daily, error) {
	var dailies []domain.Daily
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Daily
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		dailies = append(dailies, batch...)
	}
	return dailies, nil
}
