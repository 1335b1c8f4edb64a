// Package config loads hdlg settings from an optional YAML file, a .env file
// and HDLG_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	UIAuto  = "auto"
	UITUI   = "tui"
	UIPlain = "plain"
)

type Config struct {
	HDLDumpPath          string `yaml:"hdl_dump_path"`
	LogLevel             string `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat            string `yaml:"log_format" validate:"oneof=text json"`
	ProbeConcurrency     int    `yaml:"probe_concurrency" validate:"min=1,max=64"`
	UI                   string `yaml:"ui" validate:"oneof=auto tui plain"`
	BatchContinueOnError bool   `yaml:"batch_continue_on_error"`
}

func Default() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		ProbeConcurrency:     4,
		UI:                   UIAuto,
		BatchContinueOnError: true,
	}
}

// DefaultPath is <user config dir>/hdlg/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hdlg", "config.yaml")
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case optional && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("HDLG_HDL_DUMP"); v != "" {
		cfg.HDLDumpPath = v
	}
	if v := os.Getenv("HDLG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("HDLG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("HDLG_UI"); v != "" {
		cfg.UI = strings.ToLower(v)
	}
	if v := os.Getenv("HDLG_PROBE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HDLG_PROBE_CONCURRENCY: %w", err)
		}
		cfg.ProbeConcurrency = n
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s, got %v", name, fe.Param(), fe.Value()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s, got %v", name, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", name))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
