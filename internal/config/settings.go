package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"ipranges/internal/support"
)

// ErrInvalid marks configuration and argument errors. Callers exit with a
// distinct status code when an error wraps it.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Scraper struct {
		SourceURL     string `json:"source_url"`
		OutputDir     string `json:"output_dir"`
		UserAgent     string `json:"user_agent"`
		Retries       int    `json:"retries"`
		DelayMs       int    `json:"delay_ms"`
		TimeoutMs     int    `json:"timeout_ms"`
		RespectRobots bool   `json:"respect_robots"`
	} `json:"scraper"`

	Converter struct {
		InputDir          string   `json:"input_dir"`
		OutputDir         string   `json:"output_dir"`
		Formats           []string `json:"formats"`
		Threads           int      `json:"threads"`
		FileTimeoutMs     int      `json:"file_timeout_ms"`
		SampleRate        float64  `json:"sample_rate"`
		SampleAllFormats  bool     `json:"sample_all_formats"`
		TXTLayout         string   `json:"txt_layout"`
		EnumerateWarnOver uint64   `json:"enumerate_warn_over"`
	} `json:"converter"`

	Logging struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"logging"`
}

const DefaultSettingsPath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex
)

func init() {
	configValue.Store(Config{})
}

// ReadSettings loads the settings file at path on top of the embedded
// defaults and stores the result. A missing file is created with the
// default configuration first.
func ReadSettings(path string) error {
	var cfg Config
	if err := json.Unmarshal(defaultConfig, &cfg); err != nil {
		return fmt.Errorf("parsing embedded default settings: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading settings file %s: %w: %w", path, err, ErrInvalid)
		}

		log.Warn("Settings file not found, creating with default configuration", "path", path)

		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return fmt.Errorf("creating directory for settings file: %w", err)
		}
		if err := os.WriteFile(path, defaultConfig, os.ModePerm); err != nil {
			return fmt.Errorf("writing default settings file: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing settings file %s: %w: %w", path, err, ErrInvalid)
	}

	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return err
	}

	configMu.Lock()
	configValue.Store(cfg)
	configMu.Unlock()

	log.Debug("Settings file loaded successfully", "path", path)
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Scraper.SourceURL = support.GetEnv("IPRANGES_SOURCE_URL", cfg.Scraper.SourceURL)
	cfg.Scraper.UserAgent = support.GetEnv("IPRANGES_USER_AGENT", cfg.Scraper.UserAgent)
	if threads := support.GetEnvInt("IPRANGES_THREADS", cfg.Converter.Threads); threads > 0 {
		cfg.Converter.Threads = threads
	}
}

func validate(cfg Config) error {
	if cfg.Scraper.SourceURL == "" {
		return fmt.Errorf("scraper source_url must be set: %w", ErrInvalid)
	}
	if cfg.Scraper.OutputDir == "" {
		return fmt.Errorf("scraper output_dir must be set: %w", ErrInvalid)
	}
	if cfg.Scraper.Retries < 1 {
		return fmt.Errorf("scraper retries must be at least 1: %w", ErrInvalid)
	}
	if cfg.Scraper.DelayMs < 0 {
		return fmt.Errorf("scraper delay_ms cannot be negative: %w", ErrInvalid)
	}
	if cfg.Scraper.TimeoutMs <= 0 {
		return fmt.Errorf("scraper timeout_ms must be positive: %w", ErrInvalid)
	}
	if cfg.Converter.InputDir == "" {
		return fmt.Errorf("converter input_dir must be set: %w", ErrInvalid)
	}
	if cfg.Converter.OutputDir == "" {
		return fmt.Errorf("converter output_dir must be set: %w", ErrInvalid)
	}
	if cfg.Converter.Threads < 1 {
		return fmt.Errorf("converter threads must be at least 1: %w", ErrInvalid)
	}
	if cfg.Converter.FileTimeoutMs < 0 {
		return fmt.Errorf("converter file_timeout_ms cannot be negative: %w", ErrInvalid)
	}
	if cfg.Converter.SampleRate <= 0 || cfg.Converter.SampleRate > 1 {
		return fmt.Errorf("converter sample_rate must be within (0, 1]: %w", ErrInvalid)
	}
	if _, err := log.ParseLevel(LogLevel(cfg)); err != nil {
		return fmt.Errorf("logging level %q is not recognized: %w", cfg.Logging.Level, ErrInvalid)
	}
	return nil
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

// LogLevel returns the configured log level, defaulting to info.
func LogLevel(cfg Config) string {
	if cfg.Logging.Level == "" {
		return "info"
	}
	return cfg.Logging.Level
}
