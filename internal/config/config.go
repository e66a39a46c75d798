// Package config loads server settings from defaults, an optional JSON file,
// the environment and command-line flags, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/radutopala/rememberizer-mcp/internal/apiclient"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("REMEMBERIZER_VECTOR_STORE_API_KEY is not set")

const (
	// ConfigEnv names the environment variable holding the config file path
	ConfigEnv = "REMEMBERIZER_MCP_CONFIG"

	// DefaultConfigPath is read when it exists and no other path is given
	DefaultConfigPath = ".rememberizer-mcp.json"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the complete server configuration
type Config struct {
	APIKey             string   `mapstructure:"api_key"`
	BaseURL            string   `mapstructure:"base_url"`
	Server             Server   `mapstructure:"server"`
	Transport          string   `mapstructure:"transport"`
	HTTPAddr           string   `mapstructure:"http_addr"`
	LogLevel           string   `mapstructure:"log_level"`
	LogFile            string   `mapstructure:"log_file"`
	Timeouts           Timeouts `mapstructure:"timeouts"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`

	// Path of the config file that was read, empty if none
	File string `mapstructure:"-"`
}

// Server describes the MCP implementation advertised to clients
type Server struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Timeouts for the outbound API client
type Timeouts struct {
	Connect time.Duration `mapstructure:"connect"`
	Read    time.Duration `mapstructure:"read"`
	Write   time.Duration `mapstructure:"write"`
	Pool    time.Duration `mapstructure:"pool"`
}

// ClientOptions converts the configuration into API client options.
func (c *Config) ClientOptions() apiclient.Options {
	return apiclient.Options{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Timeouts: apiclient.Timeouts{
			Connect: c.Timeouts.Connect,
			Read:    c.Timeouts.Read,
			Write:   c.Timeouts.Write,
			Pool:    c.Timeouts.Pool,
		},
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// envBindings maps config keys to environment variables
var envBindings = map[string]string{
	"api_key":              "REMEMBERIZER_VECTOR_STORE_API_KEY",
	"base_url":             "REMEMBERIZER_BASE_URL",
	"server.name":          "MCP_SERVER_NAME",
	"server.version":       "MCP_SERVER_VERSION",
	"transport":            "MCP_TRANSPORT",
	"http_addr":            "MCP_HTTP_ADDR",
	"log_level":            "MCP_LOG_LEVEL",
	"log_file":             "MCP_LOG_FILE",
	"insecure_skip_verify": "REMEMBERIZER_INSECURE_SKIP_VERIFY",
}

// flagBindings maps config keys to command-line flag names
var flagBindings = map[string]string{
	"api_key":              "api-key",
	"base_url":             "base-url",
	"transport":            "transport",
	"http_addr":            "http-addr",
	"log_level":            "log-level",
	"log_file":             "log-file",
	"insecure_skip_verify": "insecure-skip-verify",
}

func setDefaults(v *viper.Viper) {
	timeouts := apiclient.DefaultTimeouts()

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", apiclient.DefaultBaseURL)
	v.SetDefault("server.name", "mcp_rememberizer_vectordb")
	v.SetDefault("server.version", "0.1.0")
	v.SetDefault("transport", TransportStdio)
	v.SetDefault("http_addr", "localhost:8484")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("timeouts.connect", timeouts.Connect)
	v.SetDefault("timeouts.read", timeouts.Read)
	v.SetDefault("timeouts.write", timeouts.Write)
	v.SetDefault("timeouts.pool", timeouts.Pool)
	v.SetDefault("insecure_skip_verify", false)
}

// AddFlags registers the flags Load understands on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Path to a JSON config file (comments allowed)")
	fs.String("api-key", "", "Rememberizer vector store API key")
	fs.String("base-url", "", "Rememberizer API base URL")
	fs.String("transport", "", "MCP transport: stdio or http")
	fs.String("http-addr", "", "Listen address for the http transport")
	fs.String("log-level", "", "Log level: debug, info, warn or error")
	fs.String("log-file", "", "Log file path (defaults to stderr)")
	fs.Bool("insecure-skip-verify", false, "Disable TLS certificate verification for the API")
}

// Load builds the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path, explicit := configPath(fs)
	found, err := readConfigFile(v, path, explicit)
	if err != nil {
		return nil, err
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if fs != nil {
		for key, name := range flagBindings {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if found {
		cfg.File = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings and enumerations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}

	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unsupported transport %q (expected %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	t := c.Timeouts
	if t.Connect < 0 || t.Read < 0 || t.Write < 0 || t.Pool < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	return nil
}

// configPath picks the file to read and reports whether it was asked for explicitly.
func configPath(fs *pflag.FlagSet) (string, bool) {
	if fs != nil {
		if path, err := fs.GetString("config"); err == nil && path != "" {
			return path, true
		}
	}
	if path := os.Getenv(ConfigEnv); path != "" {
		return path, true
	}
	return DefaultConfigPath, false
}

// readConfigFile merges a JSON-with-comments file into v. A missing default
// file is not an error.
func readConfigFile(v *viper.Viper, path string, explicit bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config: %w", err)
	}

	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}
