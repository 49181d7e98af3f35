package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"dropstage/internal/eventbus"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "dropstage.toml"

// Config represents the application configuration
type Config struct {
	Endpoint       string      `toml:"endpoint"`        // upload target URL
	FileField      string      `toml:"file_field"`      // multipart field name shared by all file parts
	StartDir       string      `toml:"start_dir"`       // initial directory for the file picker
	TimeoutSeconds int         `toml:"timeout_seconds"` // whole-request timeout, 0 disables
	Fields         []FormField `toml:"fields"`          // auxiliary scalar form fields
	UISettings     UISettings  `toml:"ui"`
}

// FormField describes one auxiliary scalar field of the upload form
type FormField struct {
	Name     string `toml:"name"`
	Label    string `toml:"label"`
	Required bool   `toml:"required"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowSizes bool `toml:"show_sizes"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &configService{
		filePath: filepath.Join(dir, DefaultFileName),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	// Fall back to defaults if no config file exists
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:     cs.filePath,
			Endpoint: cfg.Endpoint,
		})
	}
}

// applyDefaults fills in fields a partial config file left out
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.FileField == "" {
		cfg.FileField = def.FileField
	}
	if cfg.StartDir == "" {
		cfg.StartDir = def.StartDir
	}
	if cfg.Fields == nil {
		cfg.Fields = def.Fields
	}
}

// DefaultConfig returns the default configuration, matching the notes
// upload form of the reference server
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Endpoint:       "http://localhost:8080/notes/upload",
		FileField:      "files",
		StartDir:       homeDir,
		TimeoutSeconds: 60,
		Fields: []FormField{
			{Name: "title", Label: "Title", Required: true},
			{Name: "subject", Label: "Subject", Required: true},
		},
		UISettings: UISettings{
			ShowSizes: true,
		},
	}
}
