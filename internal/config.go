package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads as "90s" or "1h" from YAML and TOML
type Duration time.Duration

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML parses a scalar duration node
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// TimelineConfig configures the widget timeline
type TimelineConfig struct {
	Entries  int      `yaml:"entries" toml:"entries"`
	Interval Duration `yaml:"interval" toml:"interval"`
}

// WatchConfig configures the shared store watcher
type WatchConfig struct {
	Debounce Duration `yaml:"debounce" toml:"debounce"`
}

// Config holds user settings
type Config struct {
	DataDir  string         `yaml:"data_dir" toml:"data_dir"`
	GroupDir string         `yaml:"group_dir" toml:"group_dir"`
	Premium  bool           `yaml:"premium" toml:"premium"`
	Timeline TimelineConfig `yaml:"timeline" toml:"timeline"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
}

// DefaultConfig returns settings built from the detected OS paths
func DefaultConfig() (Config, error) {
	paths, err := DetectStoragePaths()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DataDir:  paths.DataDir,
		GroupDir: paths.GroupDir,
		Timeline: TimelineConfig{
			Entries:  DefaultTimelineEntries,
			Interval: Duration(DefaultTimelineInterval),
		},
		Watch: WatchConfig{Debounce: Duration(250 * time.Millisecond)},
	}, nil
}

// DefaultConfigPath returns ~/.config/water-eject/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "water-eject", "config.yaml"), nil
}

// LoadConfig reads path over the defaults. An empty path reads the default
// config file when it exists. The format follows the file extension.
func LoadConfig(path string) (Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	explicit := path != ""
	if !explicit {
		if path, err = DefaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, &StorageError{Path: path, Op: "read", Err: err}
	}

	if err := decodeConfig(path, data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	LogDebug("Loaded config from %s", path)
	return cfg, nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s (supported: yaml, yml, toml)", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Timeline.Entries <= 0 {
		c.Timeline.Entries = DefaultTimelineEntries
	}
	if c.Timeline.Interval <= 0 {
		c.Timeline.Interval = Duration(DefaultTimelineInterval)
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(250 * time.Millisecond)
	}
}

// Paths returns the storage locations named by the config
func (c Config) Paths() StoragePaths {
	return StoragePaths{DataDir: c.DataDir, GroupDir: c.GroupDir}
}
