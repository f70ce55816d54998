package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig holds CLI preferences stored in ~/.marsmission/config.json
type UserConfig struct {
	// DefaultSettlement filters mission listings when no --settlement flag is given
	DefaultSettlement string `json:"default_settlement,omitempty"`

	// DefaultReviewer signs plan decisions when no --reviewer flag is given
	DefaultReviewer string `json:"default_reviewer,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the file under the home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".marsmission", "config.json")), nil
}

// NewUserConfigHandlerAt creates a handler for an explicit file
func NewUserConfigHandlerAt(path string) *UserConfigHandler {
	return &UserConfigHandler{configPath: path}
}

// Load reads the user config from disk; a missing file is an empty config
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// SetDefaultSettlement stores the settlement used when none is given
func (h *UserConfigHandler) SetDefaultSettlement(name string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}
	config.DefaultSettlement = name
	return h.Save(config)
}

// SetDefaultReviewer stores the reviewer used when none is given
func (h *UserConfigHandler) SetDefaultReviewer(name string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}
	config.DefaultReviewer = name
	return h.Save(config)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
