package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CODEEXEC_SANDBOX_TIMEOUT_SEC.
const EnvPrefix = "CODEEXEC"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	MCP       MCPConfig       `mapstructure:"mcp"`
	Sandbox   SandboxConfig   `mapstructure:"sandbox"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Languages LanguagesConfig `mapstructure:"languages"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	HTTPPort     int   `mapstructure:"http_port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// MCPConfig holds configuration of the optional MCP tool server
type MCPConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// SandboxConfig holds sandbox configuration
type SandboxConfig struct {
	TimeoutSec     int    `mapstructure:"timeout_sec"`
	MemoryMB       int    `mapstructure:"memory_mb"`
	CPUPeriod      int64  `mapstructure:"cpu_period"`
	CPUQuota       int64  `mapstructure:"cpu_quota"`
	NetworkMode    string `mapstructure:"network_mode"`
	WorkspaceRoot  string `mapstructure:"workspace_root"`
	PullTimeoutSec int    `mapstructure:"pull_timeout_sec"`
	DockerHost     string `mapstructure:"docker_host"`
	SweepStale     bool   `mapstructure:"sweep_stale"`
	MaxOutputBytes int    `mapstructure:"max_output_bytes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// LanguagesConfig holds per-language image overrides and the optional
// replacement for the built-in dependency override tables.
type LanguagesConfig struct {
	Python        LanguageConfig `mapstructure:"python"`
	JavaScript    LanguageConfig `mapstructure:"javascript"`
	Golang        LanguageConfig `mapstructure:"golang"`
	CPP           LanguageConfig `mapstructure:"cpp"`
	OverridesFile string         `mapstructure:"overrides_file"`
}

// LanguageConfig holds language-specific configuration
type LanguageConfig struct {
	Image string `mapstructure:"image"`
}

// New loads and validates the application configuration
func New() (*Config, error) {
	return Load(".", "./config")
}

// Load reads config.yaml from the first of paths that has one, applies
// environment overrides and validates the result.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// If config file not found, continue with defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 8000)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("mcp.enabled", false)
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.http_port", 8081)

	v.SetDefault("sandbox.timeout_sec", 30)
	v.SetDefault("sandbox.memory_mb", 512)
	v.SetDefault("sandbox.cpu_period", 100000)
	v.SetDefault("sandbox.cpu_quota", 75000)
	v.SetDefault("sandbox.network_mode", "bridge")
	v.SetDefault("sandbox.workspace_root", "")
	v.SetDefault("sandbox.pull_timeout_sec", 600)
	v.SetDefault("sandbox.docker_host", "")
	v.SetDefault("sandbox.sweep_stale", true)
	v.SetDefault("sandbox.max_output_bytes", 1<<20)

	v.SetDefault("logging.mode", "production")
	v.SetDefault("logging.level", "info")

	// Empty images fall back to the built-in profile defaults.
	v.SetDefault("languages.python.image", "")
	v.SetDefault("languages.javascript.image", "")
	v.SetDefault("languages.golang.image", "")
	v.SetDefault("languages.cpp.image", "")
	v.SetDefault("languages.overrides_file", "")
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got: %d", c.Server.MaxBodyBytes)
	}

	if c.MCP.Transport != "stdio" && c.MCP.Transport != "http" {
		return fmt.Errorf("invalid mcp.transport: %s, must be 'stdio' or 'http'", c.MCP.Transport)
	}

	if c.MCP.Enabled && c.MCP.Transport == "http" && c.MCP.HTTPPort == c.Server.HTTPPort {
		return fmt.Errorf("mcp.http_port must differ from server.http_port, both are %d", c.MCP.HTTPPort)
	}

	if c.Sandbox.TimeoutSec <= 0 {
		return fmt.Errorf("sandbox.timeout_sec must be positive, got: %d", c.Sandbox.TimeoutSec)
	}

	if c.Sandbox.MemoryMB <= 0 {
		return fmt.Errorf("sandbox.memory_mb must be positive, got: %d", c.Sandbox.MemoryMB)
	}

	if c.Sandbox.CPUPeriod <= 0 || c.Sandbox.CPUQuota <= 0 {
		return fmt.Errorf("sandbox.cpu_period and sandbox.cpu_quota must be positive, got: %d/%d", c.Sandbox.CPUPeriod, c.Sandbox.CPUQuota)
	}

	if c.Sandbox.PullTimeoutSec <= 0 {
		return fmt.Errorf("sandbox.pull_timeout_sec must be positive, got: %d", c.Sandbox.PullTimeoutSec)
	}

	if c.Sandbox.MaxOutputBytes < 0 {
		return fmt.Errorf("sandbox.max_output_bytes must not be negative, got: %d", c.Sandbox.MaxOutputBytes)
	}

	supportedNetworkModes := map[string]bool{
		"bridge": true,
		"none":   true,
		"host":   true,
	}
	if !supportedNetworkModes[c.Sandbox.NetworkMode] {
		return fmt.Errorf("unsupported sandbox.network_mode: %s", c.Sandbox.NetworkMode)
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	return nil
}

// GetTimeout returns the execution timeout as a duration
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Sandbox.TimeoutSec) * time.Second
}

// GetPullTimeout bounds image provisioning at startup
func (c *Config) GetPullTimeout() time.Duration {
	return time.Duration(c.Sandbox.PullTimeoutSec) * time.Second
}

// GetMemoryBytes returns the container memory ceiling in bytes
func (c *Config) GetMemoryBytes() int64 {
	return int64(c.Sandbox.MemoryMB) * 1024 * 1024
}
