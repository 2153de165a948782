package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arjun/quiz-api/internal/auth"
	"github.com/arjun/quiz-api/internal/config"
	"github.com/arjun/quiz-api/internal/docs"
	"github.com/arjun/quiz-api/internal/middleware"
	"github.com/arjun/quiz-api/internal/quiz"
	"github.com/arjun/quiz-api/internal/store"
)

// newRouter wires middleware and routes. Auth is declared per route
// group: the quiz group requires an identity, register/login establish
// one and stay open.
func newRouter(authHandler *auth.Handler, quizHandler *quiz.Handler, tokens middleware.TokenVerifier, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API documentation
	r.Get("/api-docs", docs.Handler)

	// User routes (public)
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Quiz routes (protected)
	r.Route("/quizzes", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/create-quiz", quizHandler.Create)
		r.Get("/get-active-quiz", quizHandler.GetActive)
		r.Get("/get-quiz-result/{id}", quizHandler.GetResult)
		r.Get("/get-all-quizzes", quizHandler.GetAll)
	})

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	// ── PostgreSQL (users) ───────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	userStore := store.NewPostgresStore(pgPool)
	if err := userStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB (quizzes) ────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	quizStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis (rate limiting) ────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimitWindow, cfg.RateLimitMax)

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authHandler := auth.NewHandler(userStore, tokens)
	quizHandler := quiz.NewHandler(quizStore)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(authHandler, quizHandler, tokens, limiter),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Quiz API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
