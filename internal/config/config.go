package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/sevigo/mr-warden/internal/logger"
)

// ErrMissingSetting is returned when a required setting is absent at startup.
var ErrMissingSetting = errors.New("required setting is missing")

// Snapshot sources.
const (
	SnapshotSourceArchive = "archive"
	SnapshotSourceClone   = "clone"
	SnapshotSourceTree    = "tree"
)

// Generator providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

const maxFetchWorkersCeiling = 10

// Config holds the application's configuration values.
type Config struct {
	Server     ServerConfig
	GitLab     GitLabConfig
	Ollama     OllamaConfig
	Generator  GeneratorConfig
	Review     ReviewConfig
	Logging    logger.Config
	MaxWorkers int
}

type ServerConfig struct {
	Port string
}

type GitLabConfig struct {
	URL           string
	Token         string
	WebhookSecret string
	// BotUserID is the user whose approvals the bot manages. Zero means the
	// user owning Token.
	BotUserID int64
}

type OllamaConfig struct {
	Host  string
	Model string
	// Options is passed to the generation backend unmodified.
	Options map[string]any
}

// GeneratorConfig selects the text generation backend. Options are only
// honoured by the ollama provider.
type GeneratorConfig struct {
	Provider     string
	GeminiModel  string
	GeminiAPIKey string
}

type ReviewConfig struct {
	InstallPath      string
	SnapshotSource   string
	MaxFetchWorkers  int
	IgnoreExtensions []string
}

// DefaultOllamaOptions mirrors the decoding options the reviewer was tuned with.
func DefaultOllamaOptions() map[string]any {
	return map[string]any{
		"top_k":        25,  // increase to reduce hallucinations
		"mirostat_tau": 5.0, // decrease for more coherence
		"temperature":  0.5, // decrease for less creativity
		"top_p":        0.5, // decrease for more focus
	}
}

// DefaultFetchWorkers returns min(NumCPU*5, 10).
func DefaultFetchWorkers() int {
	return min(runtime.NumCPU()*5, maxFetchWorkersCeiling)
}

// LoadConfig reads configuration from the YAML file named by CONFIG_FILE_PATH
// (default config.yml) and from MRW_-prefixed environment variables, sets
// defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_FILE_PATH")
	if path == "" {
		path = "config.yml"
	}
	return Load(path)
}

// Load reads configuration from the given YAML file plus the environment.
// A missing file is tolerated when the environment supplies the required keys.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MRW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		slog.Warn("config file not found, using environment only", "path", path)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3:8b")
	v.SetDefault("ollama.options", DefaultOllamaOptions())
	v.SetDefault("generator.provider", ProviderOllama)
	v.SetDefault("generator.gemini_model", "gemini-2.5-flash")
	v.SetDefault("review.install_path", "/tmp/repos")
	v.SetDefault("review.snapshot_source", SnapshotSourceArchive)
	v.SetDefault("review.max_fetch_workers", DefaultFetchWorkers())
	v.SetDefault("review.ignore_extensions", []string{".ini", ".pyc"})
	v.SetDefault("max_workers", 2)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: v.GetString("server.port")},
		GitLab: GitLabConfig{
			URL:           v.GetString("gitlab.url"),
			Token:         v.GetString("gitlab.token"),
			WebhookSecret: v.GetString("gitlab.webhook_secret"),
			BotUserID:     v.GetInt64("gitlab.bot_user_id"),
		},
		Ollama: OllamaConfig{
			Host:    v.GetString("ollama.host"),
			Model:   v.GetString("ollama.model"),
			Options: v.GetStringMap("ollama.options"),
		},
		Generator: GeneratorConfig{
			Provider:     strings.ToLower(v.GetString("generator.provider")),
			GeminiModel:  v.GetString("generator.gemini_model"),
			GeminiAPIKey: firstNonEmpty(v.GetString("generator.gemini_api_key"), os.Getenv("GEMINI_API_KEY")),
		},
		Review: ReviewConfig{
			InstallPath:      v.GetString("review.install_path"),
			SnapshotSource:   strings.ToLower(v.GetString("review.snapshot_source")),
			MaxFetchWorkers:  v.GetInt("review.max_fetch_workers"),
			IgnoreExtensions: v.GetStringSlice("review.ignore_extensions"),
		},
		MaxWorkers: v.GetInt("max_workers"),
	}
	if err := v.UnmarshalKey("logging", &cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to parse logging settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and normalises bounded values.
func (c *Config) Validate() error {
	if c.GitLab.URL == "" {
		return fmt.Errorf("%w: gitlab.url", ErrMissingSetting)
	}
	if c.GitLab.Token == "" {
		return fmt.Errorf("%w: gitlab.token", ErrMissingSetting)
	}
	if c.Review.InstallPath == "" {
		return fmt.Errorf("%w: review.install_path", ErrMissingSetting)
	}

	switch c.Review.SnapshotSource {
	case SnapshotSourceArchive, SnapshotSourceClone, SnapshotSourceTree:
	default:
		return fmt.Errorf("unsupported review.snapshot_source %q", c.Review.SnapshotSource)
	}

	switch c.Generator.Provider {
	case ProviderOllama:
	case ProviderGemini:
		if c.Generator.GeminiAPIKey == "" {
			return fmt.Errorf("%w: generator.gemini_api_key (or GEMINI_API_KEY)", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("unsupported generator.provider %q", c.Generator.Provider)
	}

	switch {
	case c.Review.MaxFetchWorkers <= 0:
		c.Review.MaxFetchWorkers = DefaultFetchWorkers()
	case c.Review.MaxFetchWorkers > maxFetchWorkersCeiling:
		slog.Warn("review.max_fetch_workers above ceiling, capping",
			"provided", c.Review.MaxFetchWorkers, "ceiling", maxFetchWorkersCeiling)
		c.Review.MaxFetchWorkers = maxFetchWorkersCeiling
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 1
	}
	if c.Ollama.Options == nil {
		c.Ollama.Options = DefaultOllamaOptions()
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
