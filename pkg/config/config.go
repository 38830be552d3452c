// Package config loads layered YAML configuration for the coordinator.
// Defaults are overridden by the user config file, then the project config
// file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultProvider is the only provider wired today.
	DefaultProvider = "groq"

	// DefaultModel is the function-calling model assignments run against.
	DefaultModel = "llama-3.3-70b-versatile"

	DefaultMaxRounds   = 6
	DefaultTurnTimeout = Duration(3 * time.Minute)
	DefaultTemperature = 0.2
)

// Duration is a time.Duration that unmarshals from YAML strings like "90s".
type Duration time.Duration

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		var n int64
		if err2 := node.Decode(&n); err2 == nil {
			*d = Duration(n)
			return nil
		}
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the complete coordinator configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Agent    AgentConfig    `yaml:"agent"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig selects and authenticates the model backend.
type ProviderConfig struct {
	Name        string  `yaml:"name"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SheetsConfig points at the remote spreadsheet and the local fallbacks.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsPath string `yaml:"credentials_path"`
	// WorkbookPath is an .xlsx fallback consulted when the remote store
	// is unreachable.
	WorkbookPath string `yaml:"workbook_path"`
	// CSVDir is a directory of <table>.csv files, the fallback of last
	// resort. Read-only.
	CSVDir string `yaml:"csv_dir"`
}

// AgentConfig bounds the conversation loop.
type AgentConfig struct {
	MaxRounds   int      `yaml:"max_rounds"`
	TurnTimeout Duration `yaml:"turn_timeout"`
}

// StorageConfig locates conversation persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig controls structured event logging.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in defaults. Paths are rooted under the
// user's home directory when it can be resolved.
func DefaultConfig() *Config {
	base := ".skylark"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".skylark")
	}
	return &Config{
		Provider: ProviderConfig{
			Name:        DefaultProvider,
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
		},
		Sheets: SheetsConfig{
			CredentialsPath: filepath.Join(base, "credentials.json"),
			WorkbookPath:    filepath.Join(base, "fleet.xlsx"),
			CSVDir:          filepath.Join(base, "data"),
		},
		Agent: AgentConfig{
			MaxRounds:   DefaultMaxRounds,
			TurnTimeout: DefaultTurnTimeout,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(base, "sessions.db"),
		},
		Logging: LoggingConfig{
			Dir:   filepath.Join(base, "logs"),
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then the user file at
// ~/.skylark/config.yaml, then ./.skylark/config.yaml, then environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFile(cfg, filepath.Join(home, ".skylark", "config.yaml")); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(cfg, filepath.Join(".skylark", "config.yaml")); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadFile reads a single config file over the defaults, then environment.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("SKYLARK_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("SKYLARK_SHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("GOOGLE_CREDS_PATH"); v != "" {
		cfg.Sheets.CredentialsPath = v
	}
	if v := os.Getenv("SKYLARK_WORKBOOK"); v != "" {
		cfg.Sheets.WorkbookPath = v
	}
	if v := os.Getenv("SKYLARK_CSV_DIR"); v != "" {
		cfg.Sheets.CSVDir = v
	}
}

// Validate reports configuration problems that make startup pointless.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("no model API key configured: set GROQ_API_KEY or provider.api_key")
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("provider.model must not be empty")
	}
	if c.Agent.MaxRounds < 0 {
		return fmt.Errorf("agent.max_rounds must not be negative")
	}
	return nil
}
