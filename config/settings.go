package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadSystemConfig reads settings.toml, writing the commented template on
// first run.
func LoadSystemConfig() (*SystemConfig, error) {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := DefaultSystemConfig()
	if err := decodeOrSeed(GetSettingsFilePath(), GenerateSystemConfigTemplate(), cfg); err != nil {
		return nil, fmt.Errorf("system config: %w", err)
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultSystemConfig().DataDirectory
	}
	return cfg, nil
}

// LoadUserConfig reads <dataDir>/config.toml, writing the commented
// template on first run.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := DefaultUserConfig()
	if err := decodeOrSeed(userConfigPath(dataDir), GenerateUserConfigTemplate(), cfg); err != nil {
		return nil, fmt.Errorf("user config: %w", err)
	}
	return cfg, nil
}

// SaveUserConfig rewrites config.toml from cfg. The template comments are
// not preserved.
func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}
	if err := EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return os.WriteFile(userConfigPath(dataDir), buf.Bytes(), 0600)
}

func userConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// decodeOrSeed decodes path into v. A missing file is created from
// template and v keeps its defaults.
func decodeOrSeed(path, template string, v any) error {
	if !FileExists(path) {
		if err := os.WriteFile(path, []byte(template), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
