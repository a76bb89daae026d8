package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
)

const (
	DefaultBaseURL        = "https://report.ads-api.universe.microad.jp"
	DefaultAPIKeyEnv      = "MICROAD_API_KEY"
	DefaultReportType     = "campaign"
	DefaultTimeoutSeconds = 60
	DefaultTheme          = "Catppuccin Mocha"

	// CredentialAccount is the credentials-file key for the MicroAd API key.
	CredentialAccount = "microad"
)

type APIConfig struct {
	BaseURL        string `json:"base_url"`
	APIKeyEnv      string `json:"api_key_env"`
	ReportType     string `json:"report_type"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type UIConfig struct {
	DefaultGrain string `json:"default_grain"`
	FetchOnStart bool   `json:"fetch_on_start"`
}

type Config struct {
	Theme string    `json:"theme"`
	API   APIConfig `json:"api"`
	UI    UIConfig  `json:"ui"`
}

func DefaultConfig() Config {
	return Config{
		Theme: DefaultTheme,
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			APIKeyEnv:      DefaultAPIKeyEnv,
			ReportType:     DefaultReportType,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		UI: UIConfig{
			DefaultGrain: string(core.GrainCampaign),
			FetchOnStart: true,
		},
	}
}

// Grain returns the configured default grain.
func (c Config) Grain() core.Grain {
	return core.ParseGrain(c.UI.DefaultGrain)
}

func ConfigDir() string {
	if dir := os.Getenv("PACEWATCH_CONFIG_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "pacewatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pacewatch")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if strings.TrimSpace(cfg.Theme) == "" {
		cfg.Theme = def.Theme
	}
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if strings.TrimSpace(cfg.API.APIKeyEnv) == "" {
		cfg.API.APIKeyEnv = def.API.APIKeyEnv
	}
	if strings.TrimSpace(cfg.API.ReportType) == "" {
		cfg.API.ReportType = def.API.ReportType
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	cfg.UI.DefaultGrain = string(core.ParseGrain(cfg.UI.DefaultGrain))
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveTheme persists a theme name into the config file (read-modify-write).
func SaveTheme(theme string) error {
	return SaveThemeTo(ConfigPath(), theme)
}

func SaveThemeTo(path string, theme string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Theme = theme
	return SaveTo(path, cfg)
}

// SaveGrain persists the default grain (read-modify-write).
func SaveGrain(g core.Grain) error {
	return SaveGrainTo(ConfigPath(), g)
}

func SaveGrainTo(path string, g core.Grain) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.UI.DefaultGrain = string(g)
	return SaveTo(path, cfg)
}

// ResolveAPIKey returns the stored credential, falling back to the
// configured environment variable.
func (c Config) ResolveAPIKey(creds Credentials) string {
	if key := strings.TrimSpace(creds.Keys[CredentialAccount]); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(c.API.APIKeyEnv))
}
