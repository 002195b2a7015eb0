package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a hosted generation model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini"
	case AIProviderOpenAI:
		return "OpenAI"
	case AIProviderAnthropic:
		return "Anthropic"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// RankerKind selects the relevance ranking algorithm.
type RankerKind string

// Available rankers.
const (
	// RankerTFIDF ranks by TF-IDF cosine similarity.
	RankerTFIDF RankerKind = "tfidf"

	// RankerOverlap ranks by query/chunk token overlap count.
	RankerOverlap RankerKind = "overlap"
)

// IsValid returns true if the ranker is recognised.
func (k RankerKind) IsValid() bool {
	return k == RankerTFIDF || k == RankerOverlap
}

// HeadingMode selects how Doc headings are detected.
type HeadingMode string

// Heading detection modes.
const (
	// HeadingsNamed treats HEADING_1..HEADING_6 named styles as headings.
	HeadingsNamed HeadingMode = "named"

	// HeadingsBoldUnderline treats fully bold and underlined paragraphs as headings.
	HeadingsBoldUnderline HeadingMode = "bold-underline"

	// HeadingsOff disables heading detection.
	HeadingsOff HeadingMode = "off"
)

// IsValid returns true if the heading mode is recognised.
func (m HeadingMode) IsValid() bool {
	switch m {
	case HeadingsNamed, HeadingsBoldUnderline, HeadingsOff:
		return true
	default:
		return false
	}
}

// FailurePolicy selects the reply used when generation fails.
type FailurePolicy string

// Generation failure policies.
const (
	// FailureMarker replies with an explicit service-degraded marker.
	FailureMarker FailurePolicy = "marker"

	// FailureRefusal replies with the refusal sentence.
	FailureRefusal FailurePolicy = "refusal"
)

// IsValid returns true if the policy is recognised.
func (p FailurePolicy) IsValid() bool {
	return p == FailureMarker || p == FailureRefusal
}

// DriveSettings configures the document store.
type DriveSettings struct {
	FolderID           string `env:"DRIVE_FOLDER_ID"`
	DriveID            string `env:"DRIVE_ID"`
	PageSize           int64  `env:"DRIVE_PAGE_SIZE"`
	ServiceAccountJSON string `env:"SERVICE_ACCOUNT_JSON"`
	ServiceAccountFile string `env:"SERVICE_ACCOUNT_FILE"`
}

// SlackSettings configures the chat platform.
type SlackSettings struct {
	BotToken      string `env:"SLACK_BOT_TOKEN"`
	SigningSecret string `env:"SLACK_SIGNING_SECRET"`
	ReplyInThread bool   `env:"SLACK_REPLY_IN_THREAD"`

	// AppToken (xapp-...) switches event intake to Socket Mode.
	AppToken string `env:"SLACK_APP_TOKEN"`
}

// LLMSettings configures the generation model.
type LLMSettings struct {
	Provider    AIProvider    `env:"LLM_PROVIDER"`
	Model       string        `env:"LLM_MODEL"`
	APIKey      string        `env:"LLM_API_KEY"`
	BaseURL     string        `env:"LLM_BASE_URL"`
	Timeout     time.Duration `env:"LLM_TIMEOUT"`
	Temperature float64       `env:"LLM_TEMPERATURE"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS"`
	Retries     int           `env:"LLM_RETRIES"`
}

// IsConfigured returns true if the provider has what it needs to be created.
func (s *LLMSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// ReaderSettings configures the document readers.
type ReaderSettings struct {
	ChunkWords        int         `env:"CHUNK_WORDS"`
	SheetRowsPerBlock int         `env:"SHEET_ROWS_PER_BLOCK"`
	PDFMaxPages       int         `env:"PDF_MAX_PAGES"`
	MaxFileBytes      int64       `env:"MAX_FILE_BYTES"`
	MaxFileChars      int         `env:"MAX_FILE_CHARS"`
	DocQAPairing      bool        `env:"DOC_QA_PAIRING"`
	DocHeadings       HeadingMode `env:"DOC_HEADINGS"`
}

// CacheSettings configures the chunk cache.
type CacheSettings struct {
	TTL             time.Duration `env:"CACHE_TTL"`
	WarmInterval    time.Duration `env:"CACHE_WARM_INTERVAL"`
	ReadConcurrency int           `env:"READ_CONCURRENCY"`

	// RefreshTimeout bounds one full crawl. It is independent of any
	// request deadline, so slow folders still finish loading.
	RefreshTimeout time.Duration `env:"CACHE_REFRESH_TIMEOUT"`
}

// RetrievalSettings configures ranking and prompt assembly.
type RetrievalSettings struct {
	Ranker        RankerKind `env:"RANKER"`
	TopK          int        `env:"TOP_K"`
	Threshold     float64    `env:"SIMILARITY_THRESHOLD"`
	ContextBudget int        `env:"CONTEXT_BUDGET"`
}

// ReplySettings configures reply policies.
type ReplySettings struct {
	FailurePolicy       FailurePolicy `env:"GENERATION_FAILURE_POLICY"`
	ReportDegradedReads bool          `env:"REPORT_DEGRADED_READS"`
	PromptDir           string        `env:"PROMPT_DIR"`
}

// ServerSettings configures the inbound adapters.
type ServerSettings struct {
	Port            int           `env:"PORT"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`
	EventDedupSize  int           `env:"EVENT_DEDUP_SIZE"`
	DispatchWorkers int           `env:"DISPATCH_WORKERS"`
	DispatchQueue   int           `env:"DISPATCH_QUEUE"`
	MCPPort         int           `env:"MCP_PORT"`
}

// Settings is the complete application configuration.
type Settings struct {
	Drive     DriveSettings
	Slack     SlackSettings
	LLM       LLMSettings
	Readers   ReaderSettings
	Cache     CacheSettings
	Retrieval RetrievalSettings
	Reply     ReplySettings
	Server    ServerSettings
	Verbose   bool `env:"CONAHGPT_VERBOSE"`
}

// DefaultSettings returns settings with every documented default applied.
func DefaultSettings() Settings {
	return Settings{
		Drive: DriveSettings{
			PageSize: 200,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			Timeout:     60 * time.Second,
			Temperature: 0.2,
			MaxTokens:   512,
		},
		Readers: ReaderSettings{
			ChunkWords:        300,
			SheetRowsPerBlock: 20,
			PDFMaxPages:       200,
			MaxFileBytes:      20 << 20,
			MaxFileChars:      400_000,
			DocQAPairing:      true,
			DocHeadings:       HeadingsNamed,
		},
		Cache: CacheSettings{
			TTL:             10 * time.Minute,
			ReadConcurrency: 4,
			RefreshTimeout:  15 * time.Minute,
		},
		Retrieval: RetrievalSettings{
			Ranker:        RankerTFIDF,
			TopK:          3,
			Threshold:     0.1,
			ContextBudget: 8000,
		},
		Reply: ReplySettings{
			FailurePolicy: FailureMarker,
		},
		Server: ServerSettings{
			Port:            8080,
			RequestTimeout:  90 * time.Second,
			EventDedupSize:  1024,
			DispatchWorkers: 4,
			DispatchQueue:   64,
		},
	}
}

// Validate checks settings for values the pipeline cannot run with.
func (s *Settings) Validate() error {
	switch {
	case s.Cache.TTL <= 0:
		return fmt.Errorf("%w: cache TTL must be positive", ErrInvalidConfig)
	case s.Cache.ReadConcurrency <= 0:
		return fmt.Errorf("%w: read concurrency must be positive", ErrInvalidConfig)
	case s.Cache.RefreshTimeout <= 0:
		return fmt.Errorf("%w: cache refresh timeout must be positive", ErrInvalidConfig)
	case s.Retrieval.TopK <= 0:
		return fmt.Errorf("%w: top-K must be positive", ErrInvalidConfig)
	case s.Retrieval.ContextBudget <= 0:
		return fmt.Errorf("%w: context budget must be positive", ErrInvalidConfig)
	case s.Retrieval.Threshold < 0 || s.Retrieval.Threshold >= 1:
		return fmt.Errorf("%w: similarity threshold must be in [0,1)", ErrInvalidConfig)
	case !s.Retrieval.Ranker.IsValid():
		return fmt.Errorf("%w: unknown ranker %q", ErrInvalidConfig, s.Retrieval.Ranker)
	case !s.LLM.Provider.IsValid():
		return fmt.Errorf("%w: unknown LLM provider %q", ErrInvalidConfig, s.LLM.Provider)
	case s.LLM.Retries < 0 || s.LLM.Retries > 1:
		return fmt.Errorf("%w: LLM retries must be 0 or 1", ErrInvalidConfig)
	case !s.Readers.DocHeadings.IsValid():
		return fmt.Errorf("%w: unknown heading mode %q", ErrInvalidConfig, s.Readers.DocHeadings)
	case s.Readers.ChunkWords <= 0 || s.Readers.SheetRowsPerBlock <= 0:
		return fmt.Errorf("%w: chunk sizes must be positive", ErrInvalidConfig)
	case !s.Reply.FailurePolicy.IsValid():
		return fmt.Errorf("%w: unknown failure policy %q", ErrInvalidConfig, s.Reply.FailurePolicy)
	case s.Server.DispatchWorkers <= 0 || s.Server.DispatchQueue <= 0:
		return fmt.Errorf("%w: dispatcher sizes must be positive", ErrInvalidConfig)
	case s.Server.EventDedupSize <= 0:
		return fmt.Errorf("%w: event dedup size must be positive", ErrInvalidConfig)
	}
	return nil
}
