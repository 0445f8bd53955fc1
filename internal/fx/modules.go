package fx

import (
	"context"
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"github.com/amityadav/policyfeed/internal/ai"
	"github.com/amityadav/policyfeed/internal/config"
	"github.com/amityadav/policyfeed/internal/core"
	"github.com/amityadav/policyfeed/internal/enrich"
	"github.com/amityadav/policyfeed/internal/firebase"
	"github.com/amityadav/policyfeed/internal/notifications"
	"github.com/amityadav/policyfeed/internal/rss"
	"github.com/amityadav/policyfeed/internal/scraper"
	"github.com/amityadav/policyfeed/internal/search"
	"github.com/amityadav/policyfeed/internal/serpapi"
	"github.com/amityadav/policyfeed/internal/store"
	"github.com/amityadav/policyfeed/internal/tavily"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule supplies an already loaded configuration
func ConfigModule(cfg config.Config) fx.Option {
	return fx.Module("config", fx.Supply(cfg))
}

// StoreModule provides the dataset store and the optional run log
var StoreModule = fx.Module("store",
	fx.Provide(
		NewStore,
		NewRunLog,
	),
)

// SearchModule provides the source registry and fetcher
var SearchModule = fx.Module("search",
	fx.Provide(
		NewSearchRegistry,
		search.NewFetcher,
	),
)

// AIModule provides the summary provider and the throttled summarizer
var AIModule = fx.Module("ai",
	fx.Provide(
		NewAIProvider,
		NewSummarizer,
	),
)

// CoreModule provides the pipeline
var CoreModule = fx.Module("core",
	fx.Provide(
		NewPipelineCore,
		NewRunOptions,
	),
)

// NotifierModule provides the push sender
var NotifierModule = fx.Module("notifier",
	fx.Provide(NewFirebaseSender),
)

// NotificationModule provides the scheduled worker
var NotificationModule = fx.Module("notification",
	fx.Provide(NewNotificationWorker),
)

// PipelineModules is everything a single run needs
func PipelineModules(cfg config.Config) fx.Option {
	return fx.Options(
		ConfigModule(cfg),
		StoreModule,
		SearchModule,
		AIModule,
		CoreModule,
		NotifierModule,
	)
}

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewStore creates the dataset store selected by STORE_BACKEND
func NewStore(lc fx.Lifecycle, cfg config.Config) (store.Store, error) {
	var st store.Store
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pg, err := store.NewPostgresStore(context.Background(), cfg.DatabaseURL, cfg.MaxRecords)
		if err != nil {
			return nil, err
		}
		st = pg
		log.Printf("[FX] PostgresStore initialized")
	default:
		st = store.NewJSONFileStore(cfg.DataPath, cfg.MaxRecords)
		log.Printf("[FX] JSONFileStore initialized (%s)", cfg.DataPath)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			st.Close()
			return nil
		},
	})
	return st, nil
}

// NewRunLog opens the SQLite run log (optional)
func NewRunLog(lc fx.Lifecycle, cfg config.Config) *store.RunLog {
	if cfg.RunLogPath == "" {
		log.Printf("[FX] RunLog disabled (RUN_LOG_PATH not set)")
		return nil
	}
	runLog, err := store.NewRunLog(cfg.RunLogPath)
	if err != nil {
		log.Printf("[FX] RunLog failed: %v", err)
		return nil
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			runLog.Close()
			return nil
		},
	})
	log.Printf("[FX] RunLog initialized (%s)", cfg.RunLogPath)
	return runLog
}

// SourceOptions derives the per-source normalization policy from config
func SourceOptions(cfg config.Config) search.Options {
	return search.Options{
		Timeout:      cfg.FetchTimeout,
		MaxResults:   cfg.MaxResults,
		DateFallback: cfg.DateFallback,
	}.WithDefaults()
}

// NewSearchRegistry creates search registry with all available sources
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()
	opts := SourceOptions(cfg)

	registry.Register(rss.NewClient(rss.GoogleNews, opts))
	registry.Register(rss.NewClient(rss.BingNews, opts))
	log.Printf("[FX] SearchRegistry: Google News RSS + Bing News RSS registered")

	if cfg.EnableHTMLSource {
		registry.Register(scraper.NewScraper(opts))
		log.Printf("[FX] SearchRegistry: Bing HTML scraper registered")
	}

	if cfg.TavilyAPIKey != "" {
		registry.Register(tavily.NewClient(cfg.TavilyAPIKey, 7, opts))
		log.Printf("[FX] SearchRegistry: Tavily registered")
	}

	if cfg.SerpAPIKey != "" {
		registry.Register(serpapi.NewClient(cfg.SerpAPIKey, opts))
		log.Printf("[FX] SearchRegistry: SerpApi registered")
	}

	log.Printf("[FX] SearchRegistry initialized with %d sources (date fallback: %s)", registry.Count(), cfg.DateFallback)
	return registry
}

// NewAIProvider creates the summary provider. The configured AI_PROVIDER goes first;
// any other provider with a key is added as a fallback. Returns nil when no key is set.
func NewAIProvider(cfg config.Config) (ai.Provider, error) {
	var providers []ai.Provider

	primary := strings.ToLower(cfg.AIProvider)
	if cfg.AIKey() != "" {
		p, err := newProvider(primary, cfg.AIKey(), cfg.AIModel)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	fallbacks := []struct{ name, key string }{
		{"deepseek", cfg.DeepSeekAPIKey},
		{"siliconflow", cfg.SiliconFlowAPIKey},
		{"groq", cfg.GroqAPIKey},
		{"cerebras", cfg.CerebrasAPIKey},
	}
	for _, f := range fallbacks {
		if f.name == primary || f.key == "" {
			continue
		}
		p, err := newProvider(f.name, f.key, "")
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	switch len(providers) {
	case 0:
		log.Printf("[FX] AIProvider disabled (no API key for %s)", cfg.AIProvider)
		return nil, nil
	case 1:
		log.Printf("[FX] AIProvider initialized (%s)", providers[0].Name())
		return providers[0], nil
	default:
		multi := ai.NewMultiProvider(providers...)
		log.Printf("[FX] AIProvider initialized (%s)", multi.Name())
		return multi, nil
	}
}

func newProvider(name, key, model string) (ai.Provider, error) {
	if name == "gemini" {
		return ai.NewGeminiProvider(context.Background(), key, model)
	}
	return ai.NewLLMProvider(name, key, model)
}

// NewSummarizer wraps the provider with throttling and placeholder handling
func NewSummarizer(provider ai.Provider, cfg config.Config) *enrich.Summarizer {
	s := enrich.NewSummarizer(provider, enrich.Config{
		Enabled: provider != nil,
		Delay:   cfg.EnrichDelay,
		Timeout: cfg.EnrichTimeout,
	})
	log.Printf("[FX] Summarizer initialized (enabled: %v, delay: %v)", provider != nil, cfg.EnrichDelay)
	return s
}

// PipelineParams groups dependencies for PipelineCore
type PipelineParams struct {
	fx.In
	Store      store.Store
	Fetcher    *search.Fetcher
	Summarizer *enrich.Summarizer
	Sender     *firebase.Sender `optional:"true"`
	RunLog     *store.RunLog    `optional:"true"`
}

// NewPipelineCore creates the pipeline
func NewPipelineCore(p PipelineParams) *core.PipelineCore {
	var notifier core.Notifier
	if p.Sender != nil {
		notifier = p.Sender
	}
	var runLog core.RunRecorder
	if p.RunLog != nil {
		runLog = p.RunLog
	}
	c := core.NewPipelineCore(p.Store, p.Fetcher, p.Summarizer, notifier, runLog)
	log.Printf("[FX] PipelineCore initialized")
	return c
}

// NewRunOptions derives the per-run options from config
func NewRunOptions(cfg config.Config) core.RunOptions {
	mode := "run"
	if cfg.SortByDate {
		mode = "backfill"
	}
	return core.RunOptions{
		Mode:     mode,
		Keywords: cfg.Keywords,
		Merge: core.MergeOptions{
			MaxRecords: cfg.MaxRecords,
			EnrichCap:  cfg.EnrichCap,
			SortByDate: cfg.SortByDate,
		},
	}
}

// NewFirebaseSender creates Firebase Cloud Messaging sender (optional)
func NewFirebaseSender(cfg config.Config) *firebase.Sender {
	if _, err := os.Stat(cfg.FirebaseCredPath); err != nil {
		log.Printf("[FX] FirebaseSender disabled (no %s)", cfg.FirebaseCredPath)
		return nil
	}

	sender, err := firebase.NewSender(context.Background(), cfg.FirebaseCredPath, cfg.NotifyTopic)
	if err != nil {
		log.Printf("[FX] FirebaseSender failed: %v", err)
		return nil
	}

	log.Printf("[FX] FirebaseSender initialized (topic: %s)", cfg.NotifyTopic)
	return sender
}

// NewNotificationWorker creates the scheduled pipeline worker
func NewNotificationWorker(pipeline *core.PipelineCore, opts core.RunOptions, cfg config.Config) (*notifications.Worker, error) {
	opts.Mode = "serve"
	worker, err := notifications.NewWorker(pipeline, opts, cfg.CronSchedule, cfg.CronTZ)
	if err != nil {
		return nil, err
	}
	log.Printf("[FX] NotificationWorker initialized")
	return worker, nil
}
