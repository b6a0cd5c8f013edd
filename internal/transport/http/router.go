package http

import (
	"net/http"

	"github.com/bookbuddy/server/internal/application/auth"
	"github.com/bookbuddy/server/internal/application/cover"
	"github.com/bookbuddy/server/internal/application/daily"
	"github.com/bookbuddy/server/internal/application/library"
	"github.com/bookbuddy/server/internal/config"
	"github.com/bookbuddy/server/internal/transport/http/handler"
	appmiddleware "github.com/bookbuddy/server/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		Users:         deps.UserRepo,
		Mailer:        deps.Mailer,
		Signer:        deps.JWTProvider,
		ClientURL:     cfg.ClientURL,
		ResetTokenTTL: cfg.ResetTokenTTL,
	})
	librarySvc := library.NewService(library.ServiceDeps{
		Books:   deps.BookRepo,
		Shelves: deps.ShelfRepo,
		Dailies: deps.DailyRepo,
	})
	dailySvc := daily.NewService(daily.ServiceDeps{
		Dailies: deps.DailyRepo,
		Shelves: deps.ShelfRepo,
		Books:   deps.BookRepo,
	})
	coverSvc := cover.NewService(cover.ServiceDeps{
		Objects: deps.S3Store,
		Covers:  deps.CoverRepo,
		Shelves: deps.ShelfRepo,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	bookH := handler.NewBookHandler(librarySvc)
	dailyH := handler.NewDailyHandler(dailySvc)
	coverH := handler.NewCoverHandler(coverSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/verify-email/{token}", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/auth/forgot-password", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/auth/reset-password/{token}", authH.ResetPassword)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/me", authH.Me)

			r.Get("/books", bookH.List)
			r.Post("/books", bookH.Create)
			r.Get("/books/{id}", bookH.Get)
			r.Put("/books/{id}", bookH.Update)
			r.Delete("/books/{id}", bookH.Delete)
			r.Post("/books/{id}/cover", coverH.Upload)
			r.Get("/books/{id}/cover", coverH.Download)

			r.Post("/dailies", dailyH.Upsert)
			r.Get("/dailies", dailyH.Query)
			r.Delete("/dailies", dailyH.Delete)
		})
	})

	return r
}
