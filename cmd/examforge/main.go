package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/rueidis"

	"github.com/examforge/examforge/internal/analytics"
	api "github.com/examforge/examforge/internal/api/http"
	auth "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/cache"
	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/db"
	"github.com/examforge/examforge/internal/quiz"
	"github.com/examforge/examforge/internal/ratelimit"
	"github.com/examforge/examforge/internal/rbac"
	"github.com/examforge/examforge/internal/response"
	"github.com/examforge/examforge/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := db.EnsureAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	quizzes := quiz.NewSQLStore(dbh)
	responses := response.NewSQLStore(dbh)
	events := analytics.NewEventRepo(dbh)

	// --- Redis (optional): fleet-wide rate limit + cache invalidation ---
	var (
		limiter ratelimit.Limiter
		inv     cache.Invalidator
	)
	window := time.Duration(cfg.SubmitRateWindowSec) * time.Second
	if cfg.RedisAddr != "" {
		rc, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{cfg.RedisAddr}})
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rc.Close()
		limiter = ratelimit.NewRedisLimiter(rc, cfg.SubmitRateLimit, window)
		inv = cache.NewRedis(rc)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.SubmitRateLimit, window)
		inv = cache.Noop{}
	}

	svc := response.NewService(quizzes, responses, limiter, inv, events)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Public quiz taking: identity attached when present, never required.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.OptionalJWT(authSvc))
		pr.Get("/quizzes/{quizID}", api.GetQuizHandler(quizzes))
		pr.Post("/quizzes/{quizID}/responses", api.SubmitResponseHandler(svc))
		pr.Get("/assets/*", api.GetAssetHandler(bs))
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(quizzes))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(quizzes))
		pr.With(rbac.Require("quiz:delete_own")).
			Delete("/quizzes/{quizID}", api.DeleteQuizHandler(quizzes))

		pr.With(rbac.Require("response:view-own")).
			Get("/responses", api.ListMyResponsesHandler(svc))
		pr.With(rbac.Require("response:view-all")).
			Get("/quizzes/{quizID}/responses", api.ListQuizResponsesHandler(svc))

		pr.With(rbac.Require("quiz:import")).
			Post("/quizzes/{quizID}/questions/import", api.ImportQuestionsHandler(quizzes))
		pr.With(rbac.Require("quiz:export")).
			Get("/quizzes/{quizID}/questions/export", api.ExportQuestionsHandler(quizzes))

		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))

		pr.With(rbac.Require("asset:upload")).
			Post("/assets/{quizID}", api.UploadAssetHandler(bs))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, redis=%q)", cfg.HTTPAddr, cfg.DBDriver, cfg.RedisAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
