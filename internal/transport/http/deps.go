package http

import (
	"github.com/bookbuddy/server/internal/infrastructure/dynamo"
	jwtinfra "github.com/bookbuddy/server/internal/infrastructure/jwt"
	s3infra "github.com/bookbuddy/server/internal/infrastructure/s3"
	"github.com/bookbuddy/server/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	BookRepo    *dynamo.BookRepo
	ShelfRepo   *dynamo.ShelfRepo
	DailyRepo   *dynamo.DailyRepo
	CoverRepo   *dynamo.CoverRepo
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
}
