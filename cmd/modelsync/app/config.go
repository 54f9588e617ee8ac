package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine configuration
	Fixtures             string        // Lookup fixture file answering existence checks
	IDPrefix             string        // Deterministic ids with this prefix instead of UUIDs
	MaxConcurrentLookups int           // Checks in flight per call
	LookupTimeout        time.Duration // Bound on a single check
	Tracing              bool          // Wrap checks in OpenTelemetry spans

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (MODELSYNC_ prefix)
// 3. .env files
// 4. Config file (~/.modelsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("MODELSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("format", "")
	v.SetDefault("max_concurrent_lookups", constants.MaxConcurrentLookups)
	v.SetDefault("lookup_timeout", constants.DefaultLookupTimeout)

	// Try to read config file if it exists
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)
	}

	// Read config file (ignore error if not found)
	_ = v.ReadInConfig()

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Fixtures:             v.GetString("fixtures"),
		IDPrefix:             v.GetString("id_prefix"),
		MaxConcurrentLookups: v.GetInt("max_concurrent_lookups"),
		LookupTimeout:        v.GetDuration("lookup_timeout"),
		Tracing:              v.GetBool("tracing"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ApplyFile reads an explicitly given config file over the loaded
// configuration. Settings whose flag changed reports true are kept.
func (c *Config) ApplyFile(path string, changed func(flag string) bool) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapIO("read", path, err)
	}

	set := func(flag, key string, apply func(key string)) {
		if v.IsSet(key) && !changed(flag) {
			apply(key)
		}
	}
	set("format", "format", func(k string) { c.Format = v.GetString(k) })
	set("fixtures", "fixtures", func(k string) { c.Fixtures = v.GetString(k) })
	set("id-prefix", "id_prefix", func(k string) { c.IDPrefix = v.GetString(k) })
	set("max-lookups", "max_concurrent_lookups", func(k string) { c.MaxConcurrentLookups = v.GetInt(k) })
	set("lookup-timeout", "lookup_timeout", func(k string) { c.LookupTimeout = v.GetDuration(k) })
	set("tracing", "tracing", func(k string) { c.Tracing = v.GetBool(k) })

	c.ConfigFile = v.ConfigFileUsed()
	return nil
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set in the environment are never overwritten.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
