// Package config loads apidocs-mcp settings from defaults, a YAML file, a
// .env file, the environment and command-line flags, in that order of
// precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// Files looked up in the working directory when present.
const (
	DefaultConfigFile = "apidocs.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	Docs   DocsConfig   `koanf:"docs"`
	Search SearchConfig `koanf:"search"`
	Log    LogConfig    `koanf:"log"`
}

// DocsConfig points at the OpenAPI aggregate endpoint.
type DocsConfig struct {
	URL       string `koanf:"url"`
	TimeoutMS int    `koanf:"timeout_ms"`
}

// Timeout returns the request timeout as a duration.
func (d DocsConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

type SearchConfig struct {
	EnvelopePrefix string `koanf:"envelope_prefix"`
	MaxDepth       int    `koanf:"max_depth"`
	Concurrency    int    `koanf:"concurrency"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns the lowest configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"docs.url":               "http://localhost:8080/v3/api-docs/all",
		"docs.timeout_ms":        30000,
		"search.envelope_prefix": "CommonResult",
		"search.max_depth":       32,
		"search.concurrency":     1,
		"log.level":              "info",
		"log.format":             "console",
	}
}

// envKeys maps the recognized environment variables to config keys.
var envKeys = map[string]string{
	"API_DOCS_URL":            "docs.url",
	"API_TIMEOUT":             "docs.timeout_ms",
	"APIDOCS_ENVELOPE_PREFIX": "search.envelope_prefix",
	"APIDOCS_MAX_DEPTH":       "search.max_depth",
	"APIDOCS_CONCURRENCY":     "search.concurrency",
	"LOG_LEVEL":               "log.level",
	"LOG_FORMAT":              "log.format",
}

// BindFlags binds the configuration flags to cmd and all of its children.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultConfigFile+" when present)")
	flags.StringP("url", "u", "", "OpenAPI docs endpoint URL")
	flags.Int("timeout", 0, "Request timeout in milliseconds")
	flags.String("envelope-prefix", "", "Schema name prefix of response envelopes")
	flags.Int("max-depth", 0, "Maximum schema resolution depth")
	flags.Int("concurrency", 0, "Matched operations resolved in parallel")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: console, json")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := flagString(cmd, "config")
	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	dotenv, err := readEnvFile(DefaultEnvFile)
	if err != nil {
		return nil, err
	}
	if len(dotenv) > 0 {
		if err := k.Load(confmap.Provider(dotenv, "."), nil); err != nil {
			return nil, fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps a recognized, non-empty environment variable to its config
// key. Everything else is skipped.
func envKey(name, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envKeys[name], value
}

// readEnvFile reads recognized variables from a dotenv file. A missing file
// yields an empty map.
func readEnvFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m := make(map[string]any)
	for name, value := range vars {
		if key, v := envKey(name, value); key != "" {
			m[key] = v
		}
	}
	return m, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)
	if cmd == nil {
		return m
	}

	getInt := func(name string) (int, bool) {
		if !flagChanged(cmd, name) {
			return 0, false
		}
		if v, err := cmd.Flags().GetInt(name); err == nil {
			return v, true
		}
		if v, err := cmd.PersistentFlags().GetInt(name); err == nil {
			return v, true
		}
		return 0, false
	}

	if v := flagString(cmd, "url"); v != "" {
		m["docs.url"] = v
	}
	if v, ok := getInt("timeout"); ok {
		m["docs.timeout_ms"] = v
	}
	if flagChanged(cmd, "envelope-prefix") {
		m["search.envelope_prefix"] = flagString(cmd, "envelope-prefix")
	}
	if v, ok := getInt("max-depth"); ok {
		m["search.max_depth"] = v
	}
	if v, ok := getInt("concurrency"); ok {
		m["search.concurrency"] = v
	}
	if v := flagString(cmd, "log-level"); v != "" {
		m["log.level"] = v
	}
	if v := flagString(cmd, "log-format"); v != "" {
		m["log.format"] = v
	}

	return m
}

func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return ""
}

func flagChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
}

func (c *Config) Validate() error {
	if c.Docs.URL == "" {
		return fmt.Errorf("docs url is required")
	}
	u, err := url.Parse(c.Docs.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid docs url: %q (want an absolute http or https URL)", c.Docs.URL)
	}
	if c.Docs.TimeoutMS <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Docs.TimeoutMS)
	}

	if c.Search.MaxDepth <= 0 {
		return fmt.Errorf("invalid max depth: %d (must be positive)", c.Search.MaxDepth)
	}
	if c.Search.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d (must be at least 1)", c.Search.Concurrency)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s (valid: console, json)", c.Log.Format)
	}

	return nil
}
