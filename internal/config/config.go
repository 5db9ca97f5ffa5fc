package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"pc-autobuild-be/pkg/autobuild"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Intent   IntentConfig
	Resolver ResolverConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	FeedLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	EventRetention     time.Duration
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type IntentConfig struct {
	Provider      string // "ner" or "llm"
	NerURL        string
	NerMaxRetries uint
	OllamaBaseURL string
	LLMModel      string
	Timeout       time.Duration
}

type ResolverConfig struct {
	Tuning autobuild.Tuning

	StoreRetries       uint
	StoreRetryInterval time.Duration
	NameMatchMinRank   float64
	PoolLimit          int
	ResolveTimeout     time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	defaults := autobuild.DefaultTuning()

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "logs/livefeed.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			EventRetention:     getEnvAsDuration("NATS_EVENT_RETENTION", 24*time.Hour),
			RedisURL:           getEnv("REDIS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_LOG_QUERIES", false),
		},
		Intent: IntentConfig{
			Provider:      getEnv("INTENT_PROVIDER", "ner"),
			NerURL:        getEnv("NER_SERVICE_URL", "http://localhost:8000"),
			NerMaxRetries: uint(getEnvAsInt("NER_MAX_RETRIES", 2)),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "qwen2.5"),
			Timeout:       getEnvAsDuration("INTENT_TIMEOUT", 10*time.Second),
		},
		Resolver: ResolverConfig{
			Tuning: autobuild.Tuning{
				MaxAttempts:        getEnvAsInt("RESOLVER_MAX_ATTEMPTS", defaults.MaxAttempts),
				MaxBudgetIncreases: getEnvAsInt("RESOLVER_MAX_BUDGET_INCREASES", defaults.MaxBudgetIncreases),
				MaxCostRatio:       getEnvAsFloat("RESOLVER_MAX_COST_RATIO", defaults.MaxCostRatio),
				GrowthFactor:       getEnvAsFloat("RESOLVER_GROWTH_FACTOR", defaults.GrowthFactor),
				ReallocationEvery:  getEnvAsInt("RESOLVER_REALLOCATION_EVERY", defaults.ReallocationEvery),
				ReallocationFactor: getEnvAsFloat("RESOLVER_REALLOCATION_FACTOR", defaults.ReallocationFactor),
				ReallocationOffset: int64(getEnvAsInt("RESOLVER_REALLOCATION_OFFSET", int(defaults.ReallocationOffset))),
				DiversifyAttempts:  getEnvAsInt("RESOLVER_DIVERSIFY_ATTEMPTS", defaults.DiversifyAttempts),
				PreferredBoost:     getEnvAsFloat("RESOLVER_PREFERRED_BOOST", defaults.PreferredBoost),
				DefaultBoost:       getEnvAsFloat("RESOLVER_DEFAULT_BOOST", defaults.DefaultBoost),
				SearchStepLimit:    getEnvAsInt("RESOLVER_SEARCH_STEP_LIMIT", defaults.SearchStepLimit),
				SessionTTL:         getEnvAsDuration("SESSION_TTL", defaults.SessionTTL),
				SessionSweep:       getEnvAsDuration("SESSION_SWEEP_INTERVAL", defaults.SessionSweep),
			},
			StoreRetries:       uint(getEnvAsInt("GRAPH_STORE_RETRIES", 3)),
			StoreRetryInterval: getEnvAsDuration("GRAPH_STORE_RETRY_INTERVAL", 100*time.Millisecond),
			NameMatchMinRank:   getEnvAsFloat("NAME_MATCH_MIN_RANK", 0.01),
			PoolLimit:          getEnvAsInt("POOL_LIMIT", 0),
			ResolveTimeout:     getEnvAsDuration("RESOLVE_TIMEOUT", 30*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "pc-autobuild-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
