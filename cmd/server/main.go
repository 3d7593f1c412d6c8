package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/finsight/internal/analysis"
	"github.com/dgallion1/finsight/internal/api"
	"github.com/dgallion1/finsight/internal/config"
	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/llm"
	"github.com/dgallion1/finsight/internal/pipeline"
	"github.com/dgallion1/finsight/internal/retrieve"
	"github.com/dgallion1/finsight/internal/segment"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	llmClient := llm.NewClient(llm.Options{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		EmbedModel:      cfg.EmbedModel,
		CompletionModel: cfg.CompletionModel,
		Timeout:         cfg.LLMTimeout,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})

	// Initialize pipeline.
	ix := index.New()
	segmenter := segment.New(cfg.MaxUnitSize, cfg.UnitOverlap)
	retriever := retrieve.New(llmClient, ix)
	tools := analysis.NewToolSet(llmClient, analysis.Config{
		MaxContextChars: cfg.MaxContextChars,
		UnitTextCap:     cfg.UnitTextCap,
	})
	analyzer := pipeline.NewAnalyzer(retriever, tools, cfg.TopK, log)
	ingestor := pipeline.NewIngestor(segmenter, llmClient, ix, cfg.MaxConcurrentEmbed, log)
	ingestor.PDFFallback = cfg.PDFFallbackPdftotext

	// Initialize HTTP server.
	srv := api.NewServer(analyzer, ingestor, ix, llmClient, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting finsight", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
