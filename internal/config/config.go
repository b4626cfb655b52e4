package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Reference ReferenceConfig
	S3        S3Config
	LLM       LLMConfig
	Ingest    IngestConfig
	Agent     AgentConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ReferenceConfig locates the NDIS support item schedules and names their columns.
// Paths may be local files or s3://bucket/key URIs.
type ReferenceConfig struct {
	ActivePath       string `mapstructure:"active_path"`
	InactivePath     string `mapstructure:"inactive_path"`
	Sheet            string `mapstructure:"sheet"`
	ItemCodeColumn   string `mapstructure:"item_code_column"`
	StandardColumn   string `mapstructure:"standard_column"`
	RemoteColumn     string `mapstructure:"remote_column"`
	VeryRemoteColumn string `mapstructure:"very_remote_column"`
}

// S3Config holds AWS S3 settings used to fetch reference schedules.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LLMProviderConfig holds settings for a single LLM provider.
type LLMProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds the provider chain used by the agents.
type LLMConfig struct {
	Primary       LLMProviderConfig `mapstructure:"primary"`
	Secondary     LLMProviderConfig `mapstructure:"secondary"`
	Tertiary      LLMProviderConfig `mapstructure:"tertiary"`
	MaxToolRounds int               `mapstructure:"max_tool_rounds"`
}

// Providers returns the configured providers in fallback order.
func (l *LLMConfig) Providers() []*LLMProviderConfig {
	var out []*LLMProviderConfig
	for _, p := range []*LLMProviderConfig{&l.Primary, &l.Secondary, &l.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// IngestConfig holds upload and preview limits.
type IngestConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	PreviewRows   int   `mapstructure:"preview_rows"`
	TextLimit     int   `mapstructure:"text_limit"`
}

// AgentConfig holds agent selection defaults.
type AgentConfig struct {
	Default string `mapstructure:"default"`
}

// providerKeyEnv names the conventional API key variable for each provider.
var providerKeyEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

// Load reads configuration from environment variables with the NDISFRAUD_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NDISFRAUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "production")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501")

	// Reference schedule defaults
	v.SetDefault("reference.active_path", "data/nids_source_active.csv")
	v.SetDefault("reference.inactive_path", "data/nids_source_inactive.csv")
	v.SetDefault("reference.sheet", "")
	v.SetDefault("reference.item_code_column", "Support Item Number")
	v.SetDefault("reference.standard_column", "ACT")
	v.SetDefault("reference.remote_column", "Remote")
	v.SetDefault("reference.very_remote_column", "Very Remote")

	v.SetDefault("s3.region", "ap-southeast-2")
	v.SetDefault("s3.endpoint", "")

	// LLM defaults
	v.SetDefault("llm.primary.provider", "openai")
	v.SetDefault("llm.primary.default_model", "gpt-4o-mini")
	v.SetDefault("llm.primary.max_retries", 2)
	v.SetDefault("llm.primary.timeout_secs", 120)
	v.SetDefault("llm.secondary.provider", "")
	v.SetDefault("llm.secondary.max_retries", 2)
	v.SetDefault("llm.secondary.timeout_secs", 120)
	v.SetDefault("llm.tertiary.provider", "")
	v.SetDefault("llm.tertiary.max_retries", 2)
	v.SetDefault("llm.tertiary.timeout_secs", 120)
	v.SetDefault("llm.max_tool_rounds", 10)

	// Ingest defaults
	v.SetDefault("ingest.max_file_size_mb", 10)
	v.SetDefault("ingest.preview_rows", 5)
	v.SetDefault("ingest.text_limit", 1000)

	v.SetDefault("agent.default", "line_verifier")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "NDISFRAUD_SERVER_PORT",
		"server.read_timeout":          "NDISFRAUD_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "NDISFRAUD_SERVER_WRITE_TIMEOUT",
		"server.environment":           "NDISFRAUD_SERVER_ENVIRONMENT",
		"log.level":                    "NDISFRAUD_LOG_LEVEL",
		"log.format":                   "NDISFRAUD_LOG_FORMAT",
		"cors.allowed_origins":         "NDISFRAUD_CORS_ALLOWED_ORIGINS",
		"reference.active_path":        "NDISFRAUD_REFERENCE_ACTIVE_PATH",
		"reference.inactive_path":      "NDISFRAUD_REFERENCE_INACTIVE_PATH",
		"reference.sheet":              "NDISFRAUD_REFERENCE_SHEET",
		"reference.item_code_column":   "NDISFRAUD_REFERENCE_ITEM_CODE_COLUMN",
		"reference.standard_column":    "NDISFRAUD_REFERENCE_STANDARD_COLUMN",
		"reference.remote_column":      "NDISFRAUD_REFERENCE_REMOTE_COLUMN",
		"reference.very_remote_column": "NDISFRAUD_REFERENCE_VERY_REMOTE_COLUMN",
		"s3.region":                    "NDISFRAUD_S3_REGION",
		"s3.endpoint":                  "NDISFRAUD_S3_ENDPOINT",
		"s3.access_key":                "NDISFRAUD_S3_ACCESS_KEY",
		"s3.secret_key":                "NDISFRAUD_S3_SECRET_KEY",
		"llm.primary.provider":         "NDISFRAUD_LLM_PRIMARY_PROVIDER",
		"llm.primary.api_key":          "NDISFRAUD_LLM_PRIMARY_API_KEY",
		"llm.primary.default_model":    "NDISFRAUD_LLM_PRIMARY_DEFAULT_MODEL",
		"llm.primary.base_url":         "NDISFRAUD_LLM_PRIMARY_BASE_URL",
		"llm.primary.max_retries":      "NDISFRAUD_LLM_PRIMARY_MAX_RETRIES",
		"llm.primary.timeout_secs":     "NDISFRAUD_LLM_PRIMARY_TIMEOUT_SECS",
		"llm.secondary.provider":       "NDISFRAUD_LLM_SECONDARY_PROVIDER",
		"llm.secondary.api_key":        "NDISFRAUD_LLM_SECONDARY_API_KEY",
		"llm.secondary.default_model":  "NDISFRAUD_LLM_SECONDARY_DEFAULT_MODEL",
		"llm.secondary.base_url":       "NDISFRAUD_LLM_SECONDARY_BASE_URL",
		"llm.secondary.max_retries":    "NDISFRAUD_LLM_SECONDARY_MAX_RETRIES",
		"llm.secondary.timeout_secs":   "NDISFRAUD_LLM_SECONDARY_TIMEOUT_SECS",
		"llm.tertiary.provider":        "NDISFRAUD_LLM_TERTIARY_PROVIDER",
		"llm.tertiary.api_key":         "NDISFRAUD_LLM_TERTIARY_API_KEY",
		"llm.tertiary.default_model":   "NDISFRAUD_LLM_TERTIARY_DEFAULT_MODEL",
		"llm.tertiary.base_url":        "NDISFRAUD_LLM_TERTIARY_BASE_URL",
		"llm.tertiary.max_retries":     "NDISFRAUD_LLM_TERTIARY_MAX_RETRIES",
		"llm.tertiary.timeout_secs":    "NDISFRAUD_LLM_TERTIARY_TIMEOUT_SECS",
		"llm.max_tool_rounds":          "NDISFRAUD_LLM_MAX_TOOL_ROUNDS",
		"ingest.max_file_size_mb":      "NDISFRAUD_INGEST_MAX_FILE_SIZE_MB",
		"ingest.preview_rows":          "NDISFRAUD_INGEST_PREVIEW_ROWS",
		"ingest.text_limit":            "NDISFRAUD_INGEST_TEXT_LIMIT",
		"agent.default":                "NDISFRAUD_AGENT_DEFAULT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if NDISFRAUD_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("NDISFRAUD_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Reference = ReferenceConfig{
		ActivePath:       v.GetString("reference.active_path"),
		InactivePath:     v.GetString("reference.inactive_path"),
		Sheet:            v.GetString("reference.sheet"),
		ItemCodeColumn:   v.GetString("reference.item_code_column"),
		StandardColumn:   v.GetString("reference.standard_column"),
		RemoteColumn:     v.GetString("reference.remote_column"),
		VeryRemoteColumn: v.GetString("reference.very_remote_column"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	cfg.LLM = LLMConfig{
		Primary:       providerConfig(v, "llm.primary"),
		Secondary:     providerConfig(v, "llm.secondary"),
		Tertiary:      providerConfig(v, "llm.tertiary"),
		MaxToolRounds: v.GetInt("llm.max_tool_rounds"),
	}

	cfg.Ingest = IngestConfig{
		MaxFileSizeMB: v.GetInt64("ingest.max_file_size_mb"),
		PreviewRows:   v.GetInt("ingest.preview_rows"),
		TextLimit:     v.GetInt("ingest.text_limit"),
	}
	cfg.Agent = AgentConfig{Default: v.GetString("agent.default")}

	if cfg.Reference.ItemCodeColumn == "" {
		return nil, fmt.Errorf("reference.item_code_column must not be empty")
	}
	if cfg.LLM.MaxToolRounds <= 0 {
		return nil, fmt.Errorf("llm.max_tool_rounds must be positive, got %d", cfg.LLM.MaxToolRounds)
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) LLMProviderConfig {
	p := LLMProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		MaxRetries:   v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
	// Fall back to the provider's conventional key variable.
	if p.APIKey == "" {
		if env, ok := providerKeyEnv[p.Provider]; ok {
			p.APIKey = os.Getenv(env)
		}
	}
	return p
}
