// Package config loads and validates the engine's typed configuration,
// adapted from the teacher's infrastructure/config.LoadConfig/Validate
// pattern (env-var driven, fail-fast Validate) onto the configuration
// surface in spec §6: storage backend selection, SPARQL endpoint
// coordinates, provider registry entries, and memory/cache tuning.
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

// StorageType selects the persistence backend (§6).
type StorageType string

const (
	StorageMemory       StorageType = "memory"
	StorageJSON         StorageType = "json"
	StorageSPARQL       StorageType = "sparql"
	StorageCachedSPARQL StorageType = "cached-sparql"
)

// StorageOptions carries SPARQL endpoint coordinates when Storage.Type is
// sparql or cached-sparql.
type StorageOptions struct {
	Query     string
	Update    string
	GraphName string
	User      string
	Password  string
	JSONPath  string // storage.type=json
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type    StorageType
	Options StorageOptions
}

// ProviderEntry is one llmProviders[] entry (§6).
type ProviderEntry struct {
	Type            string
	Capabilities    []string
	Priority        int
	ChatModel       string
	EmbeddingModel  string
	APIKey          string
	BaseURL         string
}

// ModelSelection is models.{chat,embedding} (§6): the active provider type
// and model chosen at startup.
type ModelSelection struct {
	Provider string
	Model    string
	Options  map[string]string
}

// MemoryConfig tunes the Memory Store (§4.E, §6).
type MemoryConfig struct {
	Dimension           int
	SimilarityThreshold float64
	ContextWindow       int
	DecayRate           float64
	PromotionThreshold  float64
	ShortTermCapacity   int
}

// CacheConfig tunes the Cache Layer (§4.D).
type CacheConfig struct {
	MaxSize         int
	DefaultTTLMs    int
	DataTimeoutMs   int
	DebounceDelayMs int
}

// SPARQLEndpoint describes one named endpoint (§6 sparqlEndpoints[]).
type SPARQLEndpoint struct {
	Label    string
	User     string
	Password string
	URLBase  string
	Dataset  string
	Query    string
	Update   string
}

// NamedGraphs are the default graph URIs, overridable (§6).
type NamedGraphs struct {
	Content    string
	Navigation string
	Session    string
}

// ObservabilityConfig toggles tracing/metrics export, the ambient
// concerns carried even though the navigation/memory core's non-goals
// exclude an observability UI.
type ObservabilityConfig struct {
	LogLevel           string
	EnableMetrics       bool
	EnableTracing       bool
	OTLPEndpoint        string
	MetricsAddr         string
}

// Config is the fully-resolved, typed configuration record.
type Config struct {
	Environment   string
	Storage       StorageConfig
	Models        struct {
		Chat      ModelSelection
		Embedding ModelSelection
	}
	Providers     []ProviderEntry
	Memory        MemoryConfig
	Cache         CacheConfig
	SPARQLEndpoints []SPARQLEndpoint
	Graphs        NamedGraphs
	Observability ObservabilityConfig
	ServerAddress string
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// ResolveEnv substitutes ${NAME} and ${NAME:-default} occurrences in s from
// the process environment, per §6 and the §8 testable property:
// "http://${HOST:-x}:${PORT:-1}" with HOST=h, PORT unset -> "http://h:1".
func ResolveEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := groups[1], groups[2] != "", groups[3]
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		if hasDefault {
			return def
		}
		return ""
	})
}

// DefaultConfig returns the engine's baseline configuration before env
// overrides are applied.
func DefaultConfig() *Config {
	cfg := &Config{
		Environment:   "development",
		ServerAddress: ":8080",
	}
	cfg.Storage = StorageConfig{Type: StorageMemory}
	cfg.Memory = MemoryConfig{
		Dimension:           1536,
		SimilarityThreshold: 0.4,
		ContextWindow:       5,
		DecayRate:           1.0 / (24 * 3600),
		PromotionThreshold:  2.0,
		ShortTermCapacity:   50,
	}
	cfg.Cache = CacheConfig{
		MaxSize:         1000,
		DefaultTTLMs:    5 * 60 * 1000,
		DataTimeoutMs:   60 * 1000,
		DebounceDelayMs: 1000,
	}
	cfg.Graphs = NamedGraphs{
		Content:    "http://hyperdata.it/content",
		Navigation: "http://purl.org/stuff/navigation",
		Session:    "http://hyperdata.it/semem/session",
	}
	cfg.Observability = ObservabilityConfig{LogLevel: "info", MetricsAddr: ":9090"}
	return cfg
}

// LoadConfig builds a Config from defaults, then applies SEMEM_* env
// overrides by dotted path (e.g. SEMEM_STORAGE_TYPE=memory), then resolves
// ${VAR} templates in string fields it owns directly (storage credentials).
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SEMEM_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("SEMEM_SERVER_ADDRESS"); v != "" {
		cfg.ServerAddress = v
	}
	if v := os.Getenv("SEMEM_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = StorageType(v)
	}
	cfg.Storage.Options.Query = ResolveEnv(getEnv("SEMEM_STORAGE_QUERY", ""))
	cfg.Storage.Options.Update = ResolveEnv(getEnv("SEMEM_STORAGE_UPDATE", ""))
	cfg.Storage.Options.GraphName = ResolveEnv(getEnv("SEMEM_STORAGE_GRAPH", cfg.Graphs.Content))
	cfg.Storage.Options.User = ResolveEnv(getEnv("SEMEM_STORAGE_USER", ""))
	cfg.Storage.Options.Password = ResolveEnv(getEnv("SEMEM_STORAGE_PASSWORD", ""))
	cfg.Storage.Options.JSONPath = getEnv("SEMEM_STORAGE_JSON_PATH", "semem-memory.json")

	if v := getEnvInt("SEMEM_MEMORY_DIMENSION", 0); v > 0 {
		cfg.Memory.Dimension = v
	}
	if v := getEnvFloat("SEMEM_MEMORY_SIMILARITY_THRESHOLD", -1); v >= 0 {
		cfg.Memory.SimilarityThreshold = v
	}
	if v := getEnvInt("SEMEM_CACHE_MAX_SIZE", 0); v > 0 {
		cfg.Cache.MaxSize = v
	}

	cfg.Observability.LogLevel = getEnv("SEMEM_LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.EnableMetrics = getEnvBool("SEMEM_ENABLE_METRICS", false)
	cfg.Observability.EnableTracing = getEnvBool("SEMEM_ENABLE_TRACING", false)
	cfg.Observability.OTLPEndpoint = ResolveEnv(getEnv("SEMEM_OTLP_ENDPOINT", ""))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is internally consistent, returning a
// fatal config error listing the first problem found (§7 error taxonomy
// class 1).
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageJSON, StorageSPARQL, StorageCachedSPARQL:
	default:
		return apperrors.NewConfig("invalid storage.type %q", c.Storage.Type)
	}

	if c.Storage.Type == StorageSPARQL || c.Storage.Type == StorageCachedSPARQL {
		if c.Storage.Options.Query == "" || c.Storage.Options.Update == "" {
			return apperrors.NewConfig("sparql storage requires storage.options.query and storage.options.update")
		}
		if !strings.HasPrefix(c.Storage.Options.Query, "http") {
			return apperrors.NewConfig("invalid sparql endpoint shape: query=%q", c.Storage.Options.Query)
		}
	}

	if c.Memory.Dimension <= 0 {
		return apperrors.NewConfig("memory.dimension must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
