// Package config merges defaults, an optional config file, the environment
// and command-line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by viper.
const EnvPrefix = "BROWSE"

const (
	KeyVerbose     = "verbose"
	KeyMaxActions  = "max_actions"
	KeyMaxSteps    = "max_steps"
	KeyModel       = "model"
	KeyAPIKey      = "api_key"
	KeyBaseURL     = "base_url"
	KeyStartURL    = "start_url"
	KeyHeadless    = "headless"
	KeyCDPURL      = "cdp_url"
	KeyUserDataDir = "user_data_dir"
	KeyPlan        = "plan"
	KeyReport      = "report"
	KeyVision      = "vision"
)

const (
	DefaultModel       = "gpt-4o"
	DefaultMaxSteps    = 100
	DefaultUserDataDir = ".playwright_data"
	DefaultEnvFile     = ".env"
)

var (
	ErrInvalidMaxActions = errors.New("max actions must be a positive integer")
	ErrInvalidMaxSteps   = errors.New("max steps must be a positive integer")
)

type Config struct {
	Verbose bool
	// MaxActions is zero when the user left the per-step cap to the agent.
	MaxActions int
	MaxSteps   int

	Model   string
	APIKey  string
	BaseURL string

	StartURL    string
	Headless    bool
	CDPURL      string
	UserDataDir string

	Plan   bool
	Report bool
	Vision bool
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyMaxSteps, DefaultMaxSteps)
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyHeadless, false)
	v.SetDefault(KeyUserDataDir, DefaultUserDataDir)
	v.SetDefault(KeyPlan, false)
	v.SetDefault(KeyReport, false)
	v.SetDefault(KeyVision, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// credentials keep the names the OpenAI tooling already uses
	_ = v.BindEnv(KeyAPIKey, "OPENAI_API_KEY")
	_ = v.BindEnv(KeyBaseURL, "OPENAI_BASE_URL")
	// max_actions has no default, so AutomaticEnv alone would not make IsSet see it
	_ = v.BindEnv(KeyMaxActions)

	return v
}

// LoadEnvFile loads variables from a dotenv file without overriding the ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ReadFile merges a YAML (or any viper-supported) config file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Verbose:     v.GetBool(KeyVerbose),
		MaxSteps:    v.GetInt(KeyMaxSteps),
		Model:       strings.TrimSpace(v.GetString(KeyModel)),
		APIKey:      strings.TrimSpace(v.GetString(KeyAPIKey)),
		BaseURL:     strings.TrimSpace(v.GetString(KeyBaseURL)),
		StartURL:    strings.TrimSpace(v.GetString(KeyStartURL)),
		Headless:    v.GetBool(KeyHeadless),
		CDPURL:      strings.TrimSpace(v.GetString(KeyCDPURL)),
		UserDataDir: v.GetString(KeyUserDataDir),
		Plan:        v.GetBool(KeyPlan),
		Report:      v.GetBool(KeyReport),
		Vision:      v.GetBool(KeyVision),
	}

	if v.IsSet(KeyMaxActions) {
		cfg.MaxActions = v.GetInt(KeyMaxActions)
		if cfg.MaxActions <= 0 {
			return Config{}, fmt.Errorf("%w: got %d", ErrInvalidMaxActions, cfg.MaxActions)
		}
	}
	if cfg.MaxSteps <= 0 {
		return Config{}, fmt.Errorf("%w: got %d", ErrInvalidMaxSteps, cfg.MaxSteps)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return cfg, nil
}
