package main

import (
	"log"
	"log/slog"
	"os"

	"finbrief/db"
	"finbrief/internal/cache"
	"finbrief/internal/config"
	"finbrief/internal/handler"
	"finbrief/internal/index"
	"finbrief/internal/repository"
	"finbrief/pkg/llm"
	"finbrief/pkg/scrape"
	"finbrief/pkg/speech"
	"finbrief/pkg/stock"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	var vendorCache cache.Cache
	if cfg.RedisURL != "" {
		redisClient, err := db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to redis: %v", err)
		}
		defer redisClient.Close()
		vendorCache = cache.NewRedisCache(redisClient)
	} else {
		slog.Warn("REDIS_URL not set, vendor response caching disabled")
	}

	var (
		extractor   llm.KeywordExtractor
		synthesizer llm.Synthesizer
		summarizer  llm.Summarizer
		embedder    llm.Embedder
	)
	if cfg.OpenAIAPIKey != "" {
		openAIClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		extractor = openAIClient
		synthesizer = openAIClient
		summarizer = openAIClient
		embedder = openAIClient
	} else {
		slog.Warn("OPENAI_API_KEY not set, language and retrieval features disabled")
	}

	if cfg.SynthesisProvider == "anthropic" {
		if cfg.AnthropicAPIKey != "" {
			synthesizer = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		} else {
			slog.Warn("SYNTHESIS_PROVIDER is anthropic but ANTHROPIC_API_KEY not set")
		}
	}

	var providers []stock.QuoteClient
	if cfg.AlphaVantageAPIKey != "" {
		providers = append(providers, stock.NewAlphaVantageClient(cfg.AlphaVantageAPIKey))
	}
	if cfg.FinnhubAPIKey != "" {
		providers = append(providers, stock.NewFinnHubClient(cfg.FinnhubAPIKey))
	}
	if len(providers) == 0 {
		slog.Warn("no quote provider keys set, stock lookups disabled")
	}

	var vendor handler.SpeechVendor
	if cfg.DeepgramAPIKey != "" {
		vendor = speech.NewDeepgramClient(cfg.DeepgramAPIKey)
	} else {
		slog.Warn("DEEPGRAM_API_KEY not set, voice features disabled")
	}

	chunkRepo := repository.NewChunkRepository(database)

	var builder handler.IndexBuilder
	if embedder != nil {
		builder = index.NewIndexer(cfg.DocsDir, embedder, chunkRepo)
	}

	stockHandler := handler.NewStockHandler(providers, vendorCache)
	newsHandler := handler.NewNewsHandler(scrape.NewStockTitanClient(nil), summarizer, vendorCache)
	retrieverHandler := handler.NewRetrieverHandler(embedder, chunkRepo, builder)
	languageHandler := handler.NewLanguageHandler(extractor, synthesizer)
	speechHandler := handler.NewSpeechHandler(vendor)

	r := gin.Default()

	r.GET("/api/stock/:symbol", stockHandler.GetQuote)
	r.POST("/scraping/news", newsHandler.PostNews)
	r.POST("/retriever/search", retrieverHandler.PostSearch)
	r.POST("/retriever/build_index", retrieverHandler.PostBuildIndex)
	r.POST("/language/keywords", languageHandler.PostKeywords)
	r.POST("/language/synthesize", languageHandler.PostSynthesize)
	r.POST("/stt/transcribe", speechHandler.PostTranscribe)
	r.POST("/tts/speak", speechHandler.PostSpeak)
	r.GET("/health", retrieverHandler.GetHealth)

	if err := r.Run(cfg.AgentsAddr); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
