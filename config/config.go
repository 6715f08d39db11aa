package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the persisted client defaults
type Config struct {
	ServerURL string `json:"server_url"`
	ModelID   string `json:"model_id"`
}

// Settings are the runtime settings both surfaces read from the
// environment. Region and model id are not validated locally; a bad
// value surfaces as a remote-call error.
type Settings struct {
	Region     string
	ModelID    string
	APIKey     string
	Endpoint   string
	ListenAddr string
	ServerURL  string
	Debug      bool
}

// FromEnv reads settings from CHAT_-prefixed environment variables.
// ServerURL and ModelID carry no defaults here: an empty value means
// the variable was not set, so resolution can fall through to the
// saved configuration.
func FromEnv() Settings {
	v := viper.New()
	v.SetEnvPrefix("CHAT")
	v.AutomaticEnv()
	v.SetDefault("REGION", "us-east-1")
	v.SetDefault("LISTEN_ADDR", ":8080")

	return Settings{
		Region:     v.GetString("REGION"),
		ModelID:    v.GetString("MODEL_ID"),
		APIKey:     v.GetString("API_KEY"),
		Endpoint:   v.GetString("ENDPOINT"),
		ListenAddr: v.GetString("LISTEN_ADDR"),
		ServerURL:  v.GetString("SERVER_URL"),
		Debug:      v.GetBool("DEBUG"),
	}
}

// defaultServerURL is the built-in forwarding service address, used
// when neither flags, environment, nor the saved config name one.
const defaultServerURL = "http://localhost:8080"

// ResolveServerURL picks the forwarding service URL by precedence:
// explicit flag, then environment, then the saved default.
func ResolveServerURL(flag string, s Settings, m *Manager) string {
	if flag != "" {
		return flag
	}
	if s.ServerURL != "" {
		return s.ServerURL
	}
	return m.GetServerURL()
}

// ResolveModelID picks the model identifier the same way. The result
// may be empty when nothing is configured; the inference client
// rejects a missing model at construction.
func ResolveModelID(flag string, s Settings, m *Manager) string {
	if flag != "" {
		return flag
	}
	if s.ModelID != "" {
		return s.ModelID
	}
	return m.GetModelID()
}

// Manager handles configuration persistence
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates a new config manager
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".vision-chat")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{
		configPath: filepath.Join(configDir, "config.json"),
		config:     &Config{},
	}

	if err := m.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return m, nil
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, m.config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetServerURL returns the saved forwarding server URL
func (m *Manager) GetServerURL() string {
	if m.config.ServerURL == "" {
		return defaultServerURL
	}
	return m.config.ServerURL
}

// GetModelID returns the saved model identifier
func (m *Manager) GetModelID() string {
	return m.config.ModelID
}

// SetDefaults updates the saved server URL and model
func (m *Manager) SetDefaults(serverURL, modelID string) error {
	m.config.ServerURL = serverURL
	m.config.ModelID = modelID
	return m.Save()
}
