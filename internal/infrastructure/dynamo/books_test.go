package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bookbuddy/server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A fresh book has no back-references yet. The user_ids attribute must be
// absent from the marshaled item, not NULL: ADD can create a string set on a
// missing attribute but rejects one of a different type.
func TestBookMarshal_EmptyUserIDsOmitted(t *testing.T) {
	item, err := attributevalue.MarshalMap(&domain.Book{
		BookID:    "book-1",
		Title:     "The Hobbit",
		CatalogID: "cat-hobbit",
	})
	require.NoError(t, err)
	_, present := item["user_ids"]
	assert.False(t, present)
}

func TestBookMarshal_UserIDsAsStringSet(t *testing.T) {
	item, err := attributevalue.MarshalMap(&domain.Book{
		BookID:  "book-1",
		Title:   "The Hobbit",
		UserIDs: []string{"user-1", "user-2"},
	})
	require.NoError(t, err)
	av, present := item["user_ids"]
	require.True(t, present)
	ss, ok := av.(*types.AttributeValueMemberSS)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, ss.Value)
}
