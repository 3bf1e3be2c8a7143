// Package config loads the settings of the mailcore command from an optional
// YAML file and MAILCORE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mailcore/decode"
	"github.com/zostay/go-mailcore/encode"
)

// DefaultParallel is the number of files decoded at once by default.
const DefaultParallel = 4

// Config holds the complete configuration.
type Config struct {
	Decode  DecodeConfig  `yaml:"decode"`
	Encode  EncodeConfig  `yaml:"encode"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecodeConfig holds the defaults for decoding.
type DecodeConfig struct {
	Encoding string `yaml:"encoding"`
	NoEvent  bool   `yaml:"no_event"`
	Parallel int    `yaml:"parallel"`
}

// EncodeConfig holds the defaults for encoding.
type EncodeConfig struct {
	Mode        string `yaml:"mode"`
	From        string `yaml:"from"`
	Quota       int64  `yaml:"quota"` // zero or less is no quota
	VerifyArmor bool   `yaml:"verify_armor"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	AddSource bool   `yaml:"add_source"`
}

// Load returns the configuration. When path is not empty the YAML file there
// is read over the defaults. Environment variables always take precedence.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if _, err := decode.ParseEncoding(c.Decode.Encoding); err != nil {
		return fmt.Errorf("decode.encoding: %w", err)
	}
	if _, err := encode.ParseMode(c.Encode.Mode); err != nil {
		return fmt.Errorf("encode.mode: %w", err)
	}
	if c.Decode.Parallel < 1 {
		return fmt.Errorf("decode.parallel: must be at least 1, got %d", c.Decode.Parallel)
	}
	return nil
}

// DecodeOptions returns the decode options described by the configuration.
func (c *Config) DecodeOptions() decode.Options {
	enc, _ := decode.ParseEncoding(c.Decode.Encoding)
	return decode.Options{Encoding: enc, NoEvent: c.Decode.NoEvent}
}

// QuotaLimit returns the encode quota for a Request, or nil for none.
func (c *Config) QuotaLimit() *int64 {
	if c.Encode.Quota <= 0 {
		return nil
	}
	return encode.Quota(c.Encode.Quota)
}

func (c *Config) applyDefaults() {
	c.Decode.Encoding = string(decode.HTML)
	c.Decode.Parallel = DefaultParallel
	c.Encode.Mode = string(encode.ModePlain)
	c.Logging.Level = "info"
	c.Logging.Format = "text"
	c.Logging.Output = "stderr"
}

func envBool(name string, dst *bool) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}

func envInt(name string, dst *int64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() error {
	if v := os.Getenv("MAILCORE_DECODE_ENCODING"); v != "" {
		c.Decode.Encoding = strings.ToLower(v)
	}
	if err := envBool("MAILCORE_DECODE_NO_EVENT", &c.Decode.NoEvent); err != nil {
		return err
	}
	parallel := int64(c.Decode.Parallel)
	if err := envInt("MAILCORE_DECODE_PARALLEL", &parallel); err != nil {
		return err
	}
	c.Decode.Parallel = int(parallel)

	if v := os.Getenv("MAILCORE_ENCODE_MODE"); v != "" {
		c.Encode.Mode = v
	}
	if v := os.Getenv("MAILCORE_ENCODE_FROM"); v != "" {
		c.Encode.From = v
	}
	if err := envInt("MAILCORE_ENCODE_QUOTA", &c.Encode.Quota); err != nil {
		return err
	}
	if err := envBool("MAILCORE_ENCODE_VERIFY_ARMOR", &c.Encode.VerifyArmor); err != nil {
		return err
	}

	if v := os.Getenv("MAILCORE_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MAILCORE_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("MAILCORE_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}
	if err := envBool("MAILCORE_LOG_ADD_SOURCE", &c.Logging.AddSource); err != nil {
		return err
	}

	return nil
}
