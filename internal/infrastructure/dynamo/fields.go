package dynamo

// DynamoDB attribute names shared across repos.
const (
	fieldVerifyToken = "verify_token"
	fieldResetToken  = "reset_token"
	fieldUserIDs     = "user_ids"
	fieldUpdatedAt   = "updated_at"
)
