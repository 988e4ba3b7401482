package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"finbrief/db"
	"finbrief/internal/config"
	"finbrief/internal/index"
	"finbrief/internal/repository"
	"finbrief/pkg/llm"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required to embed documents")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	chunkRepo := repository.NewChunkRepository(database)
	openAIClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey)

	ix := index.NewIndexer(cfg.DocsDir, openAIClient, chunkRepo)

	count, err := ix.Build(context.Background())
	if err != nil {
		log.Fatalf("error building index: %v", err)
	}

	slog.Info("index rebuilt", "chunks", count, "docs_dir", cfg.DocsDir)
}
