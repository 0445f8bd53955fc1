package feed

import "time"

const (
	// Dataset bounds
	DefaultMaxRecords  = 60
	BackfillMaxRecords = 200

	// Enrichment budget per run
	DefaultEnrichCap  = 5
	BackfillEnrichCap = 100

	// Rate limiting and timeouts
	DefaultEnrichDelay   = 1 * time.Second
	DefaultFetchTimeout  = 20 * time.Second
	DefaultEnrichTimeout = 30 * time.Second

	// Title/source heuristics
	TitleSeparator = "-"
	FallbackSource = "新闻资讯"
	ArchiveSource  = "历史归档"

	// Placeholder record written when a run has nothing to show
	SystemSource  = "系统"
	FallbackTitle = "暂无最新资讯"
	FallbackLink  = "#"

	// SentinelDate is the fixed historical date used when backfilled items carry no usable date.
	SentinelDate = "2023-01-01"

	// DateLayout is the normalized on-disk date format.
	DateLayout = "2006-01-02"
)

// Summary placeholders. Each failure mode gets its own text so consumers can tell them apart.
const (
	MissingKeyPlaceholder = "⚠️ 未配置 API Key"
	FailurePlaceholder    = "摘要生成失败"
	NoSummary             = "暂无摘要"
)
