package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jackryan100123/nyaya-sahayak/internal/api"
	"github.com/jackryan100123/nyaya-sahayak/internal/chat"
	"github.com/jackryan100123/nyaya-sahayak/internal/classifier"
	"github.com/jackryan100123/nyaya-sahayak/internal/composer"
	"github.com/jackryan100123/nyaya-sahayak/internal/corpus"
	"github.com/jackryan100123/nyaya-sahayak/internal/document"
	"github.com/jackryan100123/nyaya-sahayak/internal/llm"
	"github.com/jackryan100123/nyaya-sahayak/internal/search"
	"github.com/jackryan100123/nyaya-sahayak/internal/server"
	"github.com/jackryan100123/nyaya-sahayak/internal/storage"
	"github.com/jackryan100123/nyaya-sahayak/pkg/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// A .env file is a development convenience, not a requirement.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded")
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("no LLM api key configured; remote calls will degrade to local fallbacks")
	}

	// Load the statute corpus
	laws, err := corpus.Load()
	if err != nil {
		logger.Fatal("Failed to load statute corpus", zap.Error(err))
	}
	logger.Info("statute corpus loaded", zap.Int("sections", laws.Len()))

	// Wire the pipeline
	client := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, logger)
	extractor := classifier.NewGPTExtractor(client, cfg.LLM.ClassifierModel, logger)
	searcher := search.New(laws, logger)
	comp := composer.New(client, cfg.LLM.Model, cfg.Composer.MaxSections, cfg.Composer.MaxPromptTokens, logger)
	router := chat.NewRouter(extractor, searcher, comp, logger)

	store := storage.NewMemoryStorage()
	defer store.Close()

	service := chat.NewService(store, router, logger)
	analyzer := document.NewAnalyzer(client, cfg.LLM.ClassifierModel, cfg.Upload.MaxBytes, logger)

	chatHandler := api.NewChatHandler(service, analyzer, logger)
	srv := server.New(cfg.Server.Addr, chatHandler, logger)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	logger.Info("received shutdown signal")
	if err := srv.Stop(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
