package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"dndsidebar/internal/domain"
	"dndsidebar/internal/eventbus"
)

const (
	currentVersion = 1
	fileName       = "config.toml"

	DefaultAutoscrollMargin      = 48.0
	DefaultAutoscrollMaxVelocity = 28.0
	DefaultAutoscrollIntervalMS  = 16
	minAutoscrollIntervalMS      = 10
)

// Config represents the application configuration
type Config struct {
	Version         int                    `toml:"version"`
	RootConnections []string               `toml:"root_connections"`
	Connections     map[string]string      `toml:"connections"` // nickname -> group ID ("" if ungrouped)
	Groups          map[string]GroupConfig `toml:"groups"`      // group ID -> group
	DnD             DnDSettings            `toml:"dnd"`
}

// GroupConfig is the stored form of one group
type GroupConfig struct {
	Name        string   `toml:"name"`
	ParentID    string   `toml:"parent_id"`
	Connections []string `toml:"connections"`
	Expanded    bool     `toml:"expanded"`
	Order       int      `toml:"order"`
}

// DnDSettings tunes drag-and-drop autoscroll
type DnDSettings struct {
	AutoscrollMargin      float64 `toml:"autoscroll_margin"`
	AutoscrollMaxVelocity float64 `toml:"autoscroll_max_velocity"`
	AutoscrollIntervalMS  int     `toml:"autoscroll_interval_ms"`
}

// Interval returns the autoscroll tick period
func (d DnDSettings) Interval() time.Duration {
	return time.Duration(d.AutoscrollIntervalMS) * time.Millisecond
}

// ConfigService handles configuration management
type ConfigService interface {
	Path() string
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

// NewConfigService creates a config service for path, or DefaultPath when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns the config location under the user config directory
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "dndsidebar", fileName)
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath, State: cfg.GroupState()})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:         currentVersion,
		RootConnections: []string{},
		Connections:     make(map[string]string),
		Groups:          make(map[string]GroupConfig),
		DnD: DnDSettings{
			AutoscrollMargin:      DefaultAutoscrollMargin,
			AutoscrollMaxVelocity: DefaultAutoscrollMaxVelocity,
			AutoscrollIntervalMS:  DefaultAutoscrollIntervalMS,
		},
	}
}

// normalize initializes nil collections and clamps tuning values
func (c *Config) normalize() {
	if c.Version == 0 {
		c.Version = currentVersion
	}
	if c.RootConnections == nil {
		c.RootConnections = []string{}
	}
	if c.Connections == nil {
		c.Connections = make(map[string]string)
	}
	if c.Groups == nil {
		c.Groups = make(map[string]GroupConfig)
	}
	if c.DnD.AutoscrollMargin <= 0 {
		c.DnD.AutoscrollMargin = DefaultAutoscrollMargin
	}
	if c.DnD.AutoscrollMaxVelocity <= 0 {
		c.DnD.AutoscrollMaxVelocity = DefaultAutoscrollMaxVelocity
	}
	if c.DnD.AutoscrollIntervalMS < minAutoscrollIntervalMS {
		c.DnD.AutoscrollIntervalMS = minAutoscrollIntervalMS
	}
}

// GroupState converts the stored grouping into the domain shape
func (c *Config) GroupState() domain.GroupState {
	state := domain.GroupState{
		Groups:          make(map[string]*domain.Group, len(c.Groups)),
		Connections:     make(map[string]string, len(c.Connections)),
		RootConnections: append([]string{}, c.RootConnections...),
	}
	for id, g := range c.Groups {
		state.Groups[id] = &domain.Group{
			ID:          id,
			Name:        g.Name,
			ParentID:    g.ParentID,
			Children:    []string{},
			Connections: append([]string{}, g.Connections...),
			Expanded:    g.Expanded,
			Order:       g.Order,
		}
	}
	for nick, id := range c.Connections {
		state.Connections[nick] = id
	}
	return state
}

// SetGroupState replaces the stored grouping with state
func (c *Config) SetGroupState(state domain.GroupState) {
	c.Groups = make(map[string]GroupConfig, len(state.Groups))
	for id, g := range state.Groups {
		c.Groups[id] = GroupConfig{
			Name:        g.Name,
			ParentID:    g.ParentID,
			Connections: append([]string{}, g.Connections...),
			Expanded:    g.Expanded,
			Order:       g.Order,
		}
	}
	c.Connections = make(map[string]string, len(state.Connections))
	for nick, id := range state.Connections {
		c.Connections[nick] = id
	}
	c.RootConnections = append([]string{}, state.RootConnections...)
}
