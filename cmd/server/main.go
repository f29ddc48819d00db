// Command server runs the document question-answering API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/docchat/docchat-go/internal/adapters/embedding"
	"github.com/docchat/docchat-go/internal/adapters/extractor"
	"github.com/docchat/docchat-go/internal/adapters/filewatcher"
	"github.com/docchat/docchat-go/internal/adapters/llm"
	"github.com/docchat/docchat-go/internal/adapters/vectordb"
	"github.com/docchat/docchat-go/internal/config"
	"github.com/docchat/docchat-go/internal/domain/ports"
	"github.com/docchat/docchat-go/internal/domain/usecases"
	httpserver "github.com/docchat/docchat-go/internal/infrastructure/http"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	store, err := vectordb.NewSQLiteStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error("opening vector store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	embedder := embedding.NewOllamaAdapter(cfg.Embedding.BaseURL, cfg.Embedding.Model, logger)
	generator := llm.NewGroqAdapter(llm.Config{
		APIURL:      cfg.Generation.APIURL,
		APIKey:      cfg.Generation.APIKey(),
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	}, logger)
	extract := extractor.NewFileExtractor(logger)

	ingestUC := usecases.NewIngestUseCase(extract, embedder, store, logger,
		cfg.Ingest.ChunkSize, cfg.Ingest.EmbedWorkers)
	retrieveUC := usecases.NewRetrieveUseCase(embedder, store, logger)
	answerUC := usecases.NewAnswerUseCase(retrieveUC, generator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Ingest.WatchDir != "" {
		go watchFolder(ctx, cfg.Ingest.WatchDir, ingestUC, extract, logger)
	}

	server := httpserver.NewServer(ingestUC, answerUC, store, logger, cfg.Server.Addr)
	if err := server.Start(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// watchFolder ingests supported files dropped into dir. Failures are
// logged, never fatal.
func watchFolder(ctx context.Context, dir string, ingestUC *usecases.IngestUseCase, extract ports.TextExtractor, logger *slog.Logger) {
	watcher, err := filewatcher.NewFSNotifyWatcher(extract.SupportedExtensions(), logger)
	if err != nil {
		logger.Error("starting file watcher", "error", err)
		return
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		logger.Error("watching directory", "dir", dir, "error", err)
		return
	}

	logger.Info("watching for documents", "dir", dir)
	for event := range events {
		if event.Operation == ports.FileDeleted {
			continue
		}
		data, err := os.ReadFile(event.Path)
		if err != nil {
			logger.Error("reading watched file", "path", event.Path, "error", err)
			continue
		}
		if _, err := ingestUC.Ingest(ctx, filepath.Base(event.Path), data); err != nil {
			logger.Error("ingesting watched file", "path", event.Path, "error", err)
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
