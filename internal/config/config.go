package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SENTIMO"

var (
	// ErrConfiguration marks settings that prevent the service from starting.
	ErrConfiguration = errors.New("configuration error")
	ErrMissingAPIKey = fmt.Errorf("%w: model API key is not set", ErrConfiguration)
)

type Config struct {
	Server ServerConfig `yaml:"server" envconfig:"SERVER"`
	Model  ModelConfig  `yaml:"model" envconfig:"MODEL"`
	Log    LogConfig    `yaml:"log" envconfig:"LOG"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	AllowedOrigins  []string      `yaml:"allowedOrigins" envconfig:"ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

type ModelConfig struct {
	APIKey        string `yaml:"apiKey" envconfig:"API_KEY"`
	BaseURL       string `yaml:"baseURL" envconfig:"BASE_URL"`
	AnalysisModel string `yaml:"analysisModel" envconfig:"ANALYSIS_MODEL"`
	ChatModel     string `yaml:"chatModel" envconfig:"CHAT_MODEL"`
	// ThinkingBudget bounds the model's deliberation before answering an
	// analysis; higher is slower.
	ThinkingBudget  int           `yaml:"thinkingBudget" envconfig:"THINKING_BUDGET"`
	MaxOutputTokens int           `yaml:"maxOutputTokens" envconfig:"MAX_OUTPUT_TOKENS"`
	AnalysisTimeout time.Duration `yaml:"analysisTimeout" envconfig:"ANALYSIS_TIMEOUT"`
	ChatTimeout     time.Duration `yaml:"chatTimeout" envconfig:"CHAT_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Default returns the settings used when neither file nor environment
// override them.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Model: ModelConfig{
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta/openai",
			AnalysisModel:   "gemini-3-pro-preview",
			ChatModel:       "gemini-3-pro-preview",
			ThinkingBudget:  32768,
			AnalysisTimeout: 3 * time.Minute,
			ChatTimeout:     time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// LoadDotEnv loads the given env files that exist. Variables already set
// in the environment win.
func LoadDotEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// Load reads the YAML file at path if it exists, applies environment
// overrides and validates the result. Each setting is read from
// SENTIMO_<SECTION>_<NAME> and then from the bare name, so API_KEY works;
// the API key finally falls back to VITE_API_KEY.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = os.Getenv("VITE_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that prevents startup.
func (c *Config) Validate() error {
	if c.Model.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrConfiguration, c.Server.Port)
	}
	if c.Model.ThinkingBudget < 0 {
		return fmt.Errorf("%w: thinking budget must not be negative", ErrConfiguration)
	}
	if c.Model.MaxOutputTokens < 0 {
		return fmt.Errorf("%w: max output tokens must not be negative", ErrConfiguration)
	}
	if c.Model.AnalysisTimeout < 0 || c.Model.ChatTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrConfiguration)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
