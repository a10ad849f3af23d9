package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/synapsnap/quizbot/internal/api/http"
	"github.com/synapsnap/quizbot/internal/assets"
	"github.com/synapsnap/quizbot/internal/auth"
	"github.com/synapsnap/quizbot/internal/cache"
	"github.com/synapsnap/quizbot/internal/config"
	"github.com/synapsnap/quizbot/internal/db"
	"github.com/synapsnap/quizbot/internal/eventlog"
	"github.com/synapsnap/quizbot/internal/notify"
	"github.com/synapsnap/quizbot/internal/quiz"
	"github.com/synapsnap/quizbot/internal/rbac"
	"github.com/synapsnap/quizbot/internal/results"
	"github.com/synapsnap/quizbot/internal/session"
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

	testStore := quiz.NewSQLStore(dbh)
	sessStore := session.NewSQLStore(dbh)
	resultStore := results.NewSQLStore(dbh)

	// --- Optional stats cache ---
	var statsCache results.Cache
	if cfg.RedisAddr != "" {
		c, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis connect failed: %v", err)
		}
		defer c.Close()
		statsCache = c
	}

	// --- Result events: always the DB event log, optionally a queue ---
	var pub notify.Publisher
	if cfg.AMQPURL != "" {
		p, err := notify.NewRabbitMQPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("rabbitmq connect failed: %v", err)
		}
		defer p.Close()
		pub = p
	}
	sink := notify.New(eventlog.NewRepo(dbh), pub, cfg.ResultQueue)

	agg := results.NewAggregator(resultStore, statsCache, sink)
	engine := session.NewEngine(testStore, sessStore, agg,
		session.WithRetainFinished(cfg.RetainFinished))

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TeacherUser, cfg.TeacherPassHash, cfg.StudentKey)

	bs, err := assets.NewFSStore(cfg.AssetBasePath)
	if err != nil {
		log.Fatalf("asset store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT -> subject+role in context -> rbac gates)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Teacher: store the authored test artifact
		pr.With(rbac.Require("test:create")).
			Put("/tests", api.UploadTestHandler(testStore))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(testStore))

		// Student session flow
		pr.With(rbac.Require("session:start")).
			Post("/sessions", api.StartSessionHandler(engine))
		pr.With(rbac.Require("session:resume")).
			Get("/sessions/current", api.ResumeSessionHandler(engine))
		pr.With(rbac.Require("session:answer")).
			Post("/sessions/answer", api.SubmitAnswerHandler(engine))
		pr.With(rbac.Require("session:abandon")).
			Delete("/sessions/current", api.AbandonSessionHandler(engine))

		// Teacher: aggregated outcomes
		pr.With(rbac.Require("stats:view")).
			Get("/tests/{testID}/stats", api.StatsHandler(agg))
		pr.With(rbac.Require("results:view")).
			Get("/tests/{testID}/results", api.ResultsListHandler(agg))

		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
