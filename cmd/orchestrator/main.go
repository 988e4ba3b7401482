package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"finbrief/db"
	"finbrief/internal/config"
	"finbrief/internal/handler"
	"finbrief/internal/orchestrator"
	"finbrief/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const sessionTTL = 24 * time.Hour

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	client := orchestrator.NewClient(cfg.AgentsBaseURL, orchestrator.Timeouts{
		Lookup:    cfg.LookupTimeout,
		Keywords:  cfg.KeywordsTimeout,
		Synthesis: cfg.SynthesisTimeout,
		Speech:    cfg.SpeechTimeout,
	})

	audio := orchestrator.NewAudioSynthesizer(client)
	assembler := orchestrator.NewAssembler(client, audio)
	voice := orchestrator.NewVoiceAdapter(client, assembler)

	var sessions handler.ConversationStore
	if cfg.RedisURL != "" {
		redisClient, err := db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to redis: %v", err)
		}
		defer redisClient.Close()
		sessions = session.NewStore(redisClient, sessionTTL)
	} else {
		slog.Warn("REDIS_URL not set, session persistence disabled")
	}

	briefHandler := handler.NewBriefHandler(assembler, voice, sessions)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/brief/text", briefHandler.PostTextBrief)
	r.POST("/brief/voice", briefHandler.PostVoiceBrief)
	r.GET("/health", briefHandler.GetHealth)

	if err := r.Run(cfg.OrchestratorAddr); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
