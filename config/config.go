package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ControllerType identifies the kind of MIDI control surface
type ControllerType string

const (
	ControllerLaunchpadX  ControllerType = "launchpad-x"
	ControllerGenericCC   ControllerType = "generic-cc"
	ControllerGenericGrid ControllerType = "generic-grid"
)

// ControllerConfig defines a saved control surface configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
	// FaderCCBase maps CC FaderCCBase+i to channel i's fader
	FaderCCBase int `json:"faderCCBase,omitempty"`
	// CrossfaderCC maps this CC to the crossfader position
	CrossfaderCC int `json:"crossfaderCC,omitempty"`
}

// ModelConfig describes the fixture geometry to drive
type ModelConfig struct {
	Kind   string `json:"kind"` // "strip" or "grid"
	Points int    `json:"points,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// EngineConfig stores mix loop preferences
type EngineConfig struct {
	FPS      int  `json:"fps,omitempty"`
	Threaded bool `json:"threaded,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastProject     string `json:"lastProject,omitempty"`
	ShowCueMonitor  bool   `json:"showCueMonitor,omitempty"`
	PreviewRowWidth int    `json:"previewRowWidth,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Model       ModelConfig        `json:"model"`
	Engine      EngineConfig       `json:"engine,omitempty"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	UI          UIConfig           `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Kind:   "strip",
			Points: 60,
		},
		Engine: EngineConfig{
			FPS:      60,
			Threaded: true,
		},
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
				FaderCCBase: 21,
			},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lightmix"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			c.Controllers[i] = ctrl
			return
		}
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}
