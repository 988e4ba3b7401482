package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	OrchestratorAddr string `envconfig:"ORCHESTRATOR_ADDR" default:":8000"`
	AgentsAddr       string `envconfig:"AGENTS_ADDR" default:":8001"`
	AgentsBaseURL    string `envconfig:"AGENTS_BASE_URL" default:"http://127.0.0.1:8001"`
	FrontendURL      string `envconfig:"FRONTEND_URL"`

	OpenAIAPIKey       string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey    string `envconfig:"ANTHROPIC_API_KEY"`
	FinnhubAPIKey      string `envconfig:"FINNHUB_API_KEY"`
	AlphaVantageAPIKey string `envconfig:"ALPHA_VANTAGE_API_KEY"`
	DeepgramAPIKey     string `envconfig:"DEEPGRAM_API_KEY"`

	// Which provider backs narrative synthesis: openai or anthropic.
	SynthesisProvider string `envconfig:"SYNTHESIS_PROVIDER" default:"openai"`

	DocsDir string `envconfig:"DOCS_DIR" default:"./data/docs"`

	// Per-collaborator-class timeout budgets. Lookup covers the short calls
	// (price, scrape, retrieve); synthesis and speech reflect vendor latency.
	LookupTimeout    time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"15s"`
	KeywordsTimeout  time.Duration `envconfig:"KEYWORDS_TIMEOUT" default:"20s"`
	SynthesisTimeout time.Duration `envconfig:"SYNTHESIS_TIMEOUT" default:"90s"`
	SpeechTimeout    time.Duration `envconfig:"SPEECH_TIMEOUT" default:"60s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
