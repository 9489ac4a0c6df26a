package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ServerConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type UserConfig struct {
	Server      ServerConfig `toml:"server"`
	Theme       string       `toml:"theme"`
	Greeting    string       `toml:"greeting,omitempty"`
	Suggestions []string     `toml:"suggestions"`
}

type Config struct {
	DataDirectory  string
	ServerURL      string
	RequestTimeout time.Duration
	Theme          string
	Greeting       string
	Suggestions    []string
	Keybindings    *KeyBindingsConfig
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Log is the debug logger. It discards everything unless CICHAT_DEBUG is set.
var Log = zerolog.Nop()

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Host returns the server URL without scheme, for status lines.
func (c *Config) Host() string {
	host := strings.TrimPrefix(c.ServerURL, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// LoadDotEnv loads .env from the working directory. Variables already set in
// the environment win.
func LoadDotEnv() {
	if !FileExists(".env") {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CICHAT_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if dataDir := os.Getenv("CICHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if theme := os.Getenv("CICHAT_THEME"); theme != "" {
		c.Theme = NormalizeTheme(theme)
	}
	if timeout := os.Getenv("CICHAT_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
}

// NormalizeTheme maps anything that is not "light" to dark.
func NormalizeTheme(theme string) string {
	if strings.EqualFold(strings.TrimSpace(theme), ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

func CheckDebug() bool {
	debug := os.Getenv("CICHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - request/response bodies end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	Log = zerolog.New(f).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
	Log.Info().Str("path", logPath).Msg("=== Debug logging started ===")
}

func Load() (*Config, error) {
	defaults := DefaultUserConfig()
	cfg := &Config{
		DataDirectory:  DefaultSystemConfig().DataDirectory,
		ServerURL:      defaults.Server.URL,
		RequestTimeout: time.Duration(defaults.Server.TimeoutSeconds) * time.Second,
		Theme:          defaults.Theme,
		Greeting:       defaults.Greeting,
		Suggestions:    defaults.Suggestions,
	}

	if dataDir := os.Getenv("CICHAT_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	keys, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	cfg.Keybindings = keys

	return cfg, nil
}

func (c *Config) applyUserConfig(u *UserConfig) {
	if u.Server.URL != "" {
		c.ServerURL = u.Server.URL
	}
	if u.Server.TimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(u.Server.TimeoutSeconds) * time.Second
	}
	if u.Theme != "" {
		c.Theme = NormalizeTheme(u.Theme)
	}
	if u.Greeting != "" {
		c.Greeting = u.Greeting
	}
	if len(u.Suggestions) > 0 {
		c.Suggestions = u.Suggestions
	}
}

// SaveTheme persists the theme choice to the user config.
func (c *Config) SaveTheme(theme string) error {
	dataDir := c.DataDir()
	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load user config: %w", err)
	}
	userCfg.Theme = NormalizeTheme(theme)
	if err := SaveUserConfig(userCfg, dataDir); err != nil {
		return err
	}
	c.Theme = userCfg.Theme
	return nil
}
