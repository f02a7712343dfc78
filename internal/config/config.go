// Package config provides configuration for interviewd.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	Listen    string          `mapstructure:"listen"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Interview InterviewConfig `mapstructure:"interview"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Store     StoreConfig     `mapstructure:"store"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Log       LogConfig       `mapstructure:"log"`
}

// ProviderConfig selects the completion backend.
type ProviderConfig struct {
	Name        string        `mapstructure:"name"`
	APIKey      string        `mapstructure:"api-key"`
	BaseURL     string        `mapstructure:"base-url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// InterviewConfig tunes the interviewer template.
type InterviewConfig struct {
	QuestionMin     int    `mapstructure:"question-min"`
	QuestionMax     int    `mapstructure:"question-max"`
	ScoreMin        int    `mapstructure:"score-min"`
	ScoreMax        int    `mapstructure:"score-max"`
	Tone            string `mapstructure:"tone"`
	ResumeCharLimit int    `mapstructure:"resume-char-limit"`
}

// ExtractorConfig selects the résumé text extractor.
type ExtractorConfig struct {
	// Backend is "plain" or "gemini". Only the gemini backend can read
	// PDF résumés.
	Backend string `mapstructure:"backend"`
	APIKey  string `mapstructure:"api-key"`
	Model   string `mapstructure:"model"`
}

// StoreConfig selects and bounds the session store.
type StoreConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	MaxSessions   int           `mapstructure:"max-sessions"`
	RedisAddr     string        `mapstructure:"redis-addr"`
	RedisPassword string        `mapstructure:"redis-password"`
	RedisDB       int           `mapstructure:"redis-db"`
}

// ArchiveConfig controls the transcript archive.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// PolicyConfig tunes interview admission.
type PolicyConfig struct {
	MinResumeChars int `mapstructure:"min-resume-chars"`
	// File optionally points at a custom rego policy replacing the
	// built-in one.
	File string `mapstructure:"file"`
}

// LogConfig controls log output.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")

	v.SetDefault("provider.name", "openai")
	v.SetDefault("provider.base-url", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.temperature", 0.7)
	v.SetDefault("provider.timeout", 60*time.Second)

	v.SetDefault("interview.question-min", 8)
	v.SetDefault("interview.question-max", 10)
	v.SetDefault("interview.score-min", 1)
	v.SetDefault("interview.score-max", 10)
	v.SetDefault("interview.tone", "professional, encouraging, and adaptive")
	v.SetDefault("interview.resume-char-limit", 10000)

	v.SetDefault("extractor.backend", "plain")
	v.SetDefault("extractor.model", "")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.ttl", time.Hour)
	v.SetDefault("store.max-sessions", 1000)
	v.SetDefault("store.redis-addr", "localhost:6379")

	v.SetDefault("archive.enabled", true)
	v.SetDefault("archive.dsn", "file:interviewd.db?cache=shared&mode=rwc")

	v.SetDefault("policy.min-resume-chars", 80)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads configuration from the given file (optional), environment
// variables prefixed with INTERVIEWD_, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INTERVIEWD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("interviewd")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
