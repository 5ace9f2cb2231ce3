package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/obralink/obra-monitor/internal/api"
	"github.com/obralink/obra-monitor/internal/api/handler"
	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
	"github.com/obralink/obra-monitor/internal/core/service"
	"github.com/obralink/obra-monitor/internal/infrastructure/config"
	mongodb "github.com/obralink/obra-monitor/internal/infrastructure/db/mongo"
	redisdb "github.com/obralink/obra-monitor/internal/infrastructure/db/redis"
	"github.com/obralink/obra-monitor/internal/infrastructure/queue"
	"github.com/obralink/obra-monitor/pkg/logger"
)

// @title        obra-monitor API
// @version      1.0
// @description  Construction-project monitoring: districts, projects, progress reports, documents.
//
// @securityDefinitions.apikey CookieAuth
// @in   cookie
// @name auth-token
func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	identityRepo := mongodb.NewIdentityRepository(db)
	districtRepo := mongodb.NewDistrictRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	reportRepo := mongodb.NewReportRepository(db)
	documentRepo := mongodb.NewDocumentRepository(db)

	for name, idx := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"identities": identityRepo,
		"districts":  districtRepo,
		"projects":   projectRepo,
		"reports":    reportRepo,
		"documents":  documentRepo,
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Services ---
	authService := service.NewAuthService(identityRepo, cfg.JWTSecret, cfg.SessionTTL)
	projectService := service.NewProjectService(projectRepo, districtRepo, log)
	reportService := service.NewReportService(projectRepo, reportRepo, redisdb.NewDedupChecker(rdb), log)

	dispatcher := queue.NewDispatcher(cfg.Workers, reportService, log)
	dispatcher.Start(ctx)

	if err := bootstrapDirector(ctx, cfg, authService, identityRepo); err != nil {
		log.Fatal().Err(err).Msg("bootstrap director failed")
	}

	// --- HTTP ---
	handlers := api.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.SessionTTL, cfg.IsProduction()),
		District: handler.NewDistrictHandler(districtRepo),
		Project:  handler.NewProjectHandler(projectService),
		Report:   handler.NewReportHandler(dispatcher, projectRepo, reportRepo),
		Document: handler.NewDocumentHandler(documentRepo, projectRepo),
	}

	e := api.NewRouter(handlers, authService, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// bootstrapDirector seeds an active director account on an empty identity
// store, so a fresh deployment has someone able to activate other users.
func bootstrapDirector(ctx context.Context, cfg *config.Config, auth *service.AuthService, repo ports.IdentityRepository) error {
	if cfg.Bootstrap.Email == "" || cfg.Bootstrap.Password == "" {
		return nil
	}

	n, err := repo.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	created, err := auth.Register(ctx, ports.RegisterInput{
		Email:       cfg.Bootstrap.Email,
		Password:    cfg.Bootstrap.Password,
		DisplayName: "Director",
		Role:        domain.RoleDirector,
	})
	if err != nil {
		return err
	}
	return auth.SetActive(ctx, created.ID, true)
}
