package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/pgmjr/ottodot-p1/internal/adapters/http"
	"github.com/pgmjr/ottodot-p1/internal/adapters/llm"
	firestorestore "github.com/pgmjr/ottodot-p1/internal/adapters/storage/firestore"
	memstore "github.com/pgmjr/ottodot-p1/internal/adapters/storage/memory"
	sqlitestore "github.com/pgmjr/ottodot-p1/internal/adapters/storage/sqlite"
	"github.com/pgmjr/ottodot-p1/internal/app/grading"
	"github.com/pgmjr/ottodot-p1/internal/app/problem"
	"github.com/pgmjr/ottodot-p1/internal/config"
	"github.com/pgmjr/ottodot-p1/internal/domain"
	"github.com/pgmjr/ottodot-p1/internal/observability"
	"github.com/pgmjr/ottodot-p1/internal/prompts"
)

func main() {
	ctx := context.Background()

	observability.Setup(slog.LevelInfo)
	log := observability.Logger()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// An empty template catalog is a configuration error, not something
	// to discover on the first request.
	if err := prompts.Validate(); err != nil {
		log.Error("prompt catalog invalid", "error", err)
		os.Exit(1)
	}

	// LLM: mock or Gemini, by config.
	var llmClient domain.LLMClient
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		llmClient = llm.NewMock()
	} else {
		log.Info("using Gemini LLM client", "model", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			Model:     cfg.ModelName,
		})
		if err != nil {
			log.Error("error initializing Gemini client", "error", err)
			os.Exit(1)
		}
	}

	// Storage: memory, sqlite or firestore.
	var (
		sessionStore    domain.SessionStore
		submissionStore domain.SubmissionStore
	)
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Error("error initializing Firestore store", "error", err)
			os.Exit(1)
		}
		defer fsStore.Close()

		// 1 store, implements 2 interfaces
		sessionStore = fsStore
		submissionStore = fsStore

	case config.StorageSQLite:
		log.Info("using SQLite storage", "path", cfg.DBPath)
		sqlStore, err := sqlitestore.NewStore(cfg.DBPath)
		if err != nil {
			log.Error("error initializing SQLite store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()

		if err := sqlStore.Ping(ctx); err != nil {
			log.Error("database health check failed", "error", err)
			os.Exit(1)
		}

		sessionStore = sqlStore
		submissionStore = sqlStore

	default:
		log.Info("using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		submissionStore = memstore.NewSubmissionStore()
	}

	problemSvc := problem.NewService(llmClient, sessionStore)
	gradingSvc := grading.NewService(llmClient, sessionStore, submissionStore)

	handler := httpadapter.NewServer(problemSvc, gradingSvc)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("ottodot API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownCtx.Done()
	stop()

	log.Info("shutting down gracefully")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(timeoutCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
