// Package config loads protmatch settings from a YAML (or JSON) file and
// the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config path is given.
const DefaultPath = "protmatch.yaml"

// MaxSequenceLengthLimit is the largest accepted server.max_sequence_length.
const MaxSequenceLengthLimit = 100000

// Config holds every tunable of the CLI and the server.
type Config struct {
	// Matrix is the path of a penalty table; empty selects built-in BLOSUM62.
	Matrix  string `json:"matrix" yaml:"matrix"`
	Workers int    `json:"workers" yaml:"workers"`
	Server  Server `json:"server" yaml:"server"`
	Log     Log    `json:"log" yaml:"log"`
}

// Server configures the HTTP API.
type Server struct {
	Host           string        `json:"host" yaml:"host"`
	Port           int           `json:"port" yaml:"port"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout    time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	// MaxCandidates caps the candidate list of a best-match request.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`
	// MaxSequenceLength caps the residues of any one sequence in a request.
	// Alignment memory grows with the product of two lengths.
	MaxSequenceLength int `json:"max_sequence_length" yaml:"max_sequence_length"`
	// MaxBodyBytes caps the size of a request body.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// Log configures the logger.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// File, when set, receives logs instead of stderr.
	File string `json:"file" yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workers: 1,
		Server: Server{
			Host:           "localhost",
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 60 * time.Second,
			MaxCandidates:  10000,
			// 5000 x 5000 cells is about 225 MB of score and direction state.
			MaxSequenceLength: 5000,
			MaxBodyBytes:      64 << 20,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	if err := loadFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROTMATCH_MATRIX"); v != "" {
		cfg.Matrix = v
	}
	if v := os.Getenv("PROTMATCH_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("PROTMATCH_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PROTMATCH_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
	if v := os.Getenv("PROTMATCH_MAX_SEQUENCE_LENGTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.MaxSequenceLength = i
		}
	}
	if v := os.Getenv("PROTMATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PROTMATCH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("PROTMATCH_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxCandidates < 1 {
		return fmt.Errorf("server.max_candidates must be at least 1, got %d", c.Server.MaxCandidates)
	}
	if c.Server.MaxSequenceLength < 1 || c.Server.MaxSequenceLength > MaxSequenceLengthLimit {
		return fmt.Errorf("server.max_sequence_length must be between 1 and %d, got %d",
			MaxSequenceLengthLimit, c.Server.MaxSequenceLength)
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("server.max_body_bytes must be at least 1, got %d", c.Server.MaxBodyBytes)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format must be one of text, json, logfmt; got %q", c.Log.Format)
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
