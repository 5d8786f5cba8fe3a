package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/taxdesk/internal/flagx"
	"github.com/dmitrijs2005/taxdesk/internal/timex"
)

// FileConfig is the DTO a config file is decoded into. Empty fields leave
// the current value alone.
type FileConfig struct {
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	DatabasePath   string         `json:"database_path" yaml:"database_path" toml:"database_path"`
	PollInterval   timex.Duration `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	StatusInterval timex.Duration `json:"status_interval" yaml:"status_interval" toml:"status_interval"`
	LogFile        string         `json:"log_file" yaml:"log_file" toml:"log_file"`
	LogLevel       string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	StartPath      string         `json:"start_path" yaml:"start_path" toml:"start_path"`
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the value of VAR, or "" when unset.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// parseFile overlays cfg with the file named by -c or -config. Nothing
// happens when neither flag is given.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return nil
	}
	fc, err := readFile(path)
	if err != nil {
		return err
	}
	fc.apply(cfg)
	return nil
}

// readFile decodes path by extension: .json/.jsonc (comments allowed),
// .yaml/.yml or .toml.
func readFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	expanded := expandEnvVars(string(data))

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON([]byte(expanded)), &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal([]byte(expanded), &fc)
	case ".toml":
		_, err = toml.Decode(expanded, &fc)
	default:
		return nil, fmt.Errorf("unsupported config file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.PollInterval.Duration > 0 {
		cfg.PollInterval = fc.PollInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StatusInterval.Duration > 0 {
		cfg.StatusInterval = fc.StatusInterval.Duration
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.StartPath != "" {
		cfg.StartPath = fc.StartPath
	}
}
