package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/ai"
	"github.com/sudhakarkatam/foliochat/internal/config"
	"github.com/sudhakarkatam/foliochat/internal/handler"
	"github.com/sudhakarkatam/foliochat/internal/job"
	"github.com/sudhakarkatam/foliochat/internal/logsink"
	"github.com/sudhakarkatam/foliochat/internal/middleware"
	"github.com/sudhakarkatam/foliochat/internal/repo"
	"github.com/sudhakarkatam/foliochat/internal/schedule"
	"github.com/sudhakarkatam/foliochat/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "foliochat",
		Short: "portfolio chat backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run foliochat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("log_sink", cfg.LogSink.Type),
	)

	profileRepo := repo.NewProfileRepo(db)
	vectorRepo := repo.NewVectorRepo(db, cfg.AI.Gemini.EmbedDim)
	instructionRepo := repo.NewInstructionRepo(db)

	googleProvider, err := ai.NewChatProvider(string(ai.ProviderGoogle), cfg.AI.Gemini)
	if err != nil {
		return fmt.Errorf("init google provider: %w", err)
	}
	openrouterProvider, err := ai.NewChatProvider(string(ai.ProviderOpenRouter), cfg.AI.OpenRouter)
	if err != nil {
		return fmt.Errorf("init openrouter provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(string(ai.ProviderGoogle), cfg.AI.Gemini)
	if err != nil {
		return fmt.Errorf("init embed provider: %w", err)
	}
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.Gemini.EmbedModel)

	sink, err := logsink.New(cfg.LogSink, logsink.Deps{DB: db})
	if err != nil {
		return fmt.Errorf("init log sink: %w", err)
	}

	providers := map[ai.ProviderID]ai.IChatProvider{
		ai.ProviderGoogle:     googleProvider,
		ai.ProviderOpenRouter: openrouterProvider,
	}
	defaults := map[ai.ProviderID]string{
		ai.ProviderGoogle:     cfg.AI.Gemini.Model,
		ai.ProviderOpenRouter: cfg.AI.OpenRouter.Model,
	}

	retrievalService := service.NewRetrievalService(embedder, vectorRepo, profileRepo, cfg.Retrieval.TopK, cfg.Retrieval.MinSimilarity)
	promptService := service.NewPromptService(instructionRepo)
	chatService := service.NewChatService(providers, retrievalService, promptService, sink)
	embeddingService := service.NewEmbeddingService(profileRepo, vectorRepo, embedder, cfg.AI.Gemini.EmbedDim, time.Duration(cfg.Refresh.IntervalMS)*time.Millisecond)

	deps := handler.RouterDeps{
		Chat:       handler.NewChatHandler(chatService, defaults),
		Refresh:    handler.NewRefreshHandler(embeddingService),
		Health:     handler.NewHealthHandler(db),
		AdminToken: cfg.Refresh.AdminToken,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		// streamed frames must reach the client as they are produced;
		// compression would buffer them
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
			"/api/gemini",
			"/api/openrouter",
			"/functions/chat",
		})),
	)
	handler.RegisterRoutes(engine, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Refresh.Cron != "" {
		if err := scheduler.AddJob(job.NewEmbeddingRefreshJob(embeddingService), cfg.Refresh.Cron); err != nil {
			return fmt.Errorf("schedule refresh job: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
