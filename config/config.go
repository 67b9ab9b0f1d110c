package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/duration"
)

// Config represents the application configuration. Unset fields fall back
// to the defaults in internal/constants.
type Config struct {
	APIURL            string             `yaml:"api_url,omitempty" json:"api_url,omitempty"`
	UserAgent         string             `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	PerPage           *int               `yaml:"per_page,omitempty" json:"per_page,omitempty"`
	Debounce          *duration.Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
	Timeout           *duration.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RequestsPerSecond *float64           `yaml:"requests_per_second,omitempty" json:"requests_per_second,omitempty"`
	DefaultFormat     string             `yaml:"default_format,omitempty" json:"default_format,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".gitsearch"
	}
	return filepath.Join(configDir, "gitsearch")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".gitsearch.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .gitsearch.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{}

	global, err := readFile(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readFile(LocalConfigPath())
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file without merging or validation. A
// missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg, nil
}

// readFile parses a config file. A missing file yields nil and no error.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	return &Config{
		APIURL:            pick(local.APIURL, global.APIURL),
		UserAgent:         pick(local.UserAgent, global.UserAgent),
		PerPage:           pickPtr(local.PerPage, global.PerPage),
		Debounce:          pickPtr(local.Debounce, global.Debounce),
		Timeout:           pickPtr(local.Timeout, global.Timeout),
		RequestsPerSecond: pickPtr(local.RequestsPerSecond, global.RequestsPerSecond),
		DefaultFormat:     pick(local.DefaultFormat, global.DefaultFormat),
	}
}

func pick(local, global string) string {
	if local != "" {
		return local
	}
	return global
}

func pickPtr[T any](local, global *T) *T {
	if local != nil {
		return local
	}
	return global
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.PerPage != nil && (*c.PerPage < 1 || *c.PerPage > constants.MaxPerPage) {
		return fmt.Errorf("per_page must be between 1 and %d, got %d", constants.MaxPerPage, *c.PerPage)
	}
	if c.RequestsPerSecond != nil && *c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", *c.RequestsPerSecond)
	}
	if c.Debounce != nil && c.Debounce.Std() <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	switch c.DefaultFormat {
	case "", "table", "json", "markdown":
	default:
		return fmt.Errorf("default_format must be table, json or markdown, got %q", c.DefaultFormat)
	}
	return nil
}

// GetAPIURL returns the API root, or the public GitHub API when unset.
func (c *Config) GetAPIURL() string {
	return pick(c.APIURL, constants.DefaultAPIURL)
}

// GetUserAgent returns the User-Agent header value.
func (c *Config) GetUserAgent() string {
	return pick(c.UserAgent, constants.DefaultUserAgent)
}

// GetPerPage returns the search page size.
func (c *Config) GetPerPage() int {
	if c.PerPage != nil {
		return *c.PerPage
	}
	return constants.DefaultPerPage
}

// GetDebounce returns the debounce window.
func (c *Config) GetDebounce() time.Duration {
	if c.Debounce != nil {
		return c.Debounce.Std()
	}
	return constants.DefaultDebounce
}

// GetTimeout returns the HTTP timeout. Zero disables it.
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout != nil {
		return c.Timeout.Std()
	}
	return constants.DefaultTimeout
}

// GetRequestsPerSecond returns the proactive throttle. Zero disables it.
func (c *Config) GetRequestsPerSecond() float64 {
	if c.RequestsPerSecond != nil {
		return *c.RequestsPerSecond
	}
	return 0
}

// GetDefaultFormat returns the output format for one-shot commands.
func (c *Config) GetDefaultFormat() string {
	return pick(c.DefaultFormat, "table")
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Config, value string) error{
	"api_url": func(c *Config, v string) error {
		c.APIURL = v
		return nil
	},
	"user_agent": func(c *Config, v string) error {
		c.UserAgent = v
		return nil
	},
	"per_page": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("per_page must be an integer: %w", err)
		}
		c.PerPage = &n
		return nil
	},
	"debounce": func(c *Config, v string) error {
		d, err := duration.Parse(v)
		if err != nil {
			return err
		}
		c.Debounce = duration.Of(d)
		return nil
	},
	"timeout": func(c *Config, v string) error {
		d, err := duration.Parse(v)
		if err != nil {
			return err
		}
		c.Timeout = duration.Of(d)
		return nil
	},
	"requests_per_second": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("requests_per_second must be a number: %w", err)
		}
		c.RequestsPerSecond = &f
		return nil
	},
	"default_format": func(c *Config, v string) error {
		c.DefaultFormat = strings.ToLower(v)
		return nil
	},
}

// Set assigns a key from its string form and validates the result.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := set(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Save saves the configuration to the global config file
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes the configuration to path.
func (c *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(path, string(data))
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	perPage := constants.DefaultPerPage
	rps := 0.0
	return &Config{
		APIURL:            constants.DefaultAPIURL,
		UserAgent:         constants.DefaultUserAgent,
		PerPage:           &perPage,
		Debounce:          duration.Of(constants.DefaultDebounce),
		Timeout:           duration.Of(constants.DefaultTimeout),
		RequestsPerSecond: &rps,
		DefaultFormat:     "table",
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	// Get absolute path for local config
	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# gitsearch configuration file
# See: gitsearch config defaults  (for all available options)

# Output format for search and repos: table, json or markdown
default_format: table

# Users returned per search (1-100)
per_page: 5

# How long typing must pause before a search is sent
debounce: 300ms

# Point at a GitHub Enterprise server (optional)
# api_url: https://github.example.com/api/v3/

# Space out requests to stay under the unauthenticated quota (optional)
# requests_per_second: 0.5
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
