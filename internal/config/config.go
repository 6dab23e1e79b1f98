package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the public chempath service.
const DefaultAPIBaseURL = "https://muneer320-chempath.hf.space"

// EnvAPIBaseURL overrides APIBaseURL when set.
const EnvAPIBaseURL = "CHEMPATH_API_URL"

// Config is the merged runtime configuration shared by every surface.
type Config struct {
	// APIBaseURL is the root of the compound/pathway service.
	APIBaseURL string `json:"api_base_url,omitempty"`

	// TimeoutSeconds bounds each round trip to the service.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// PageSize is the number of compounds per page in listings.
	PageSize int `json:"page_size,omitempty"`

	// DefaultMaxSteps is used by path searches that don't specify max steps.
	DefaultMaxSteps int `json:"default_max_steps,omitempty"`

	// SuggestionLimit caps autocomplete suggestions.
	SuggestionLimit int `json:"suggestion_limit,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools names MCP tools that are not registered. Unknown names
	// produce a startup warning.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the settings used when no config file sets a value.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:      DefaultAPIBaseURL,
		TimeoutSeconds:  30,
		PageSize:        12,
		DefaultMaxSteps: 5,
		SuggestionLimit: 10,
		LogLevel:        "info",
	}
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads baseDir/config.json over the defaults. A missing file yields
// the defaults.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.chempath.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.chempath) and repo
// (.chempath) directories, then applies the environment override.
// Repo values win for scalars and disabled_tools lists are unioned.
// Missing files are skipped.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(DefaultConfig(), global), repo)
	ApplyEnv(cfg)
	return cfg, nil
}

// ApplyEnv applies environment overrides to cfg.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}
}

// FindRepoConfig walks upward from startDir to find the nearest .chempath/config.json.
// An empty string means no repo config exists above startDir.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".chempath", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw decodes one config file. A missing file decodes as the zero
// Config so that Merge leaves the base untouched.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile decodes one config file over the defaults.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge layers overlay on top of base. Non-zero overlay scalars replace the
// base value; DisabledTools is the deduplicated union of both.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.APIBaseURL = strings.TrimRight(firstString(overlay.APIBaseURL, base.APIBaseURL), "/")
	result.TimeoutSeconds = firstPositive(overlay.TimeoutSeconds, base.TimeoutSeconds)
	result.PageSize = firstPositive(overlay.PageSize, base.PageSize)
	result.DefaultMaxSteps = firstPositive(overlay.DefaultMaxSteps, base.DefaultMaxSteps)
	result.SuggestionLimit = firstPositive(overlay.SuggestionLimit, base.SuggestionLimit)
	result.LogLevel = strings.ToLower(firstString(overlay.LogLevel, base.LogLevel))

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstString(a, b string) string {
	if a = strings.TrimSpace(a); a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

func firstPositive(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}

// mergeStringSlice unions a and b in order, dropping blanks and repeats.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
