package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amityadav/policyfeed/internal/feed"
)

const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	DataPath     string
	HistoryPath  string
	StoreBackend string
	DatabaseURL  string
	RunLogPath   string

	MaxRecords    int
	EnrichCap     int
	EnrichDelay   time.Duration
	FetchTimeout  time.Duration
	EnrichTimeout time.Duration
	MaxResults    int
	DateFallback  feed.DateFallback
	SortByDate    bool

	Keywords        []string
	HistoryKeywords []string
	KeywordsFile    string

	AIProvider        string
	AIModel           string
	DeepSeekAPIKey    string
	SiliconFlowAPIKey string
	GroqAPIKey        string
	CerebrasAPIKey    string
	GeminiAPIKey      string

	TavilyAPIKey     string
	SerpAPIKey       string
	EnableHTMLSource bool

	FeedAPIKey       string
	JWTSecret        string
	FirebaseCredPath string
	NotifyTopic      string

	HTTPPort     string
	GRPCPort     string
	CronSchedule string
	CronTZ       string
}

var (
	defaultKeywords        = []string{"智能建造 robotics"}
	defaultHistoryKeywords = []string{"智能建造政策 2024", "智能建造 试点城市", "建筑机器人 行业标准", "BIM技术 政策"}
)

// Load loads configuration from environment variables
func Load() (Config, error) {
	cfg := Config{
		DataPath:     getEnv("DATA_PATH", "data.json"),
		HistoryPath:  getEnv("HISTORY_PATH", "history_data.json"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendJSON)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RunLogPath:   os.Getenv("RUN_LOG_PATH"),

		MaxRecords:    getEnvInt("MAX_RECORDS", feed.DefaultMaxRecords),
		EnrichCap:     getEnvInt("ENRICH_CAP", feed.DefaultEnrichCap),
		EnrichDelay:   getEnvDuration("ENRICH_DELAY", feed.DefaultEnrichDelay),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", feed.DefaultFetchTimeout),
		EnrichTimeout: getEnvDuration("ENRICH_TIMEOUT", feed.DefaultEnrichTimeout),
		MaxResults:    getEnvInt("MAX_RESULTS", 20),

		Keywords:        splitList(os.Getenv("KEYWORDS"), defaultKeywords),
		HistoryKeywords: splitList(os.Getenv("HISTORY_KEYWORDS"), defaultHistoryKeywords),
		KeywordsFile:    os.Getenv("KEYWORDS_FILE"),

		AIProvider:        getEnv("AI_PROVIDER", "deepseek"),
		AIModel:           os.Getenv("AI_MODEL"),
		DeepSeekAPIKey:    os.Getenv("DEEPSEEK_API_KEY"),
		SiliconFlowAPIKey: os.Getenv("SILICONFLOW_API_KEY"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		CerebrasAPIKey:    os.Getenv("CEREBRAS_API_KEY"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),

		TavilyAPIKey:     os.Getenv("TAVILY_API_KEY"),
		SerpAPIKey:       os.Getenv("SERPAPI_API_KEY"),
		EnableHTMLSource: getEnvBool("ENABLE_HTML_SOURCE", false),

		FeedAPIKey:       os.Getenv("FEED_API_KEY"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		FirebaseCredPath: getEnv("FIREBASE_CRED_PATH", "firebase/service-account.json"),
		NotifyTopic:      getEnv("NOTIFY_TOPIC", "policy-feed"),

		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		GRPCPort:     getEnv("GRPC_PORT", "50051"),
		CronSchedule: getEnv("CRON_SCHEDULE", "0 */6 * * *"),
		CronTZ:       getEnv("CRON_TZ", "Asia/Shanghai"),
	}

	fallback, err := feed.ParseDateFallback(os.Getenv("DATE_FALLBACK"))
	if err != nil {
		return Config{}, err
	}
	cfg.DateFallback = fallback

	if cfg.KeywordsFile != "" {
		groups, err := LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return Config{}, err
		}
		if len(groups.Run) > 0 {
			cfg.Keywords = groups.Run
		}
		if len(groups.History) > 0 {
			cfg.HistoryKeywords = groups.History
		}
	}

	if cfg.StoreBackend != BackendJSON && cfg.StoreBackend != BackendPostgres {
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q (supported: json, postgres)", cfg.StoreBackend)
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
	}
	return cfg, nil
}

// ForBackfill returns the configuration for a historical backfill: history keywords,
// the history file, a fixed date fallback, date ordering and a larger enrichment budget.
func (c Config) ForBackfill() Config {
	c.DataPath = c.HistoryPath
	c.StoreBackend = BackendJSON
	c.Keywords = c.HistoryKeywords
	c.MaxRecords = feed.BackfillMaxRecords
	c.EnrichCap = feed.BackfillEnrichCap
	c.DateFallback = feed.FixedFallback(feed.SentinelDate)
	c.SortByDate = true
	return c
}

// AIKey returns the credential for the selected provider
func (c Config) AIKey() string {
	switch strings.ToLower(c.AIProvider) {
	case "siliconflow":
		return c.SiliconFlowAPIKey
	case "groq":
		return c.GroqAPIKey
	case "cerebras":
		return c.CerebrasAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.DeepSeekAPIKey
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string, defaultValue []string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}
