package lui

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes the atlases to preload and the window to open.
//
//	default_atlas: default
//	duplicate_policy: replace
//	atlases:
//	  - name: default
//	    descriptor: Res/atlas.txt
//	    image: Res/atlas.png
//	window:
//	  title: LUI
//	  width: 640
//	  height: 480
type Config struct {
	DefaultAtlas    string        `yaml:"default_atlas"`
	DuplicatePolicy string        `yaml:"duplicate_policy"`
	Atlases         []AtlasConfig `yaml:"atlases"`
	Window          WindowConfig  `yaml:"window"`
}

// AtlasConfig names one atlas and its descriptor and image files.
type AtlasConfig struct {
	Name       string `yaml:"name"`
	Descriptor string `yaml:"descriptor"`
	Image      string `yaml:"image"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DefaultConfig returns the config used when no file is given: the
// "default" atlas from Res/atlas.txt and Res/atlas.png.
func DefaultConfig() *Config {
	return &Config{
		DefaultAtlas:    DefaultAtlasName,
		DuplicatePolicy: DuplicateReplace.String(),
		Atlases: []AtlasConfig{
			{Name: DefaultAtlasName, Descriptor: "Res/atlas.txt", Image: "Res/atlas.png"},
		},
		Window: WindowConfig{Title: "LUI", Width: 640, Height: 480},
	}
}

// LoadConfig reads and validates a YAML config file. Relative atlas paths
// are resolved against the file's directory. Missing fields take the
// DefaultConfig values, except the atlas list.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	dir := filepath.Dir(path)
	for i := range cfg.Atlases {
		a := &cfg.Atlases[i]
		if !filepath.IsAbs(a.Descriptor) {
			a.Descriptor = filepath.Join(dir, a.Descriptor)
		}
		if !filepath.IsAbs(a.Image) {
			a.Image = filepath.Join(dir, a.Image)
		}
	}
	return cfg, nil
}

// ParseConfig unmarshals and validates YAML config data.
func ParseConfig(data []byte) (*Config, error) {
	def := DefaultConfig()
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "yaml: %v", err)
	}
	if cfg.DefaultAtlas == "" {
		cfg.DefaultAtlas = def.DefaultAtlas
	}
	if cfg.DuplicatePolicy == "" {
		cfg.DuplicatePolicy = def.DuplicatePolicy
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = def.Window.Title
	}
	if cfg.Window.Width == 0 && cfg.Window.Height == 0 {
		cfg.Window.Width, cfg.Window.Height = def.Window.Width, def.Window.Height
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for missing or conflicting values.
func (c *Config) Validate() error {
	if _, err := ParseDuplicatePolicy(c.DuplicatePolicy); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	seen := make(map[string]bool, len(c.Atlases))
	for i, a := range c.Atlases {
		if a.Name == "" {
			return errors.Wrapf(ErrInvalidConfig, "atlases[%d]: name is empty", i)
		}
		if seen[a.Name] {
			return errors.Wrapf(ErrInvalidConfig, "atlases[%d]: name %q listed twice", i, a.Name)
		}
		seen[a.Name] = true
		if a.Descriptor == "" || a.Image == "" {
			return errors.Wrapf(ErrInvalidConfig, "atlases[%d] %q: descriptor and image are required", i, a.Name)
		}
	}
	return nil
}

// PoolOptions returns the pool options the config selects.
func (c *Config) PoolOptions() []PoolOption {
	policy, _ := ParseDuplicatePolicy(c.DuplicatePolicy)
	opts := []PoolOption{WithDuplicatePolicy(policy)}
	if c.DefaultAtlas != "" {
		opts = append(opts, WithDefaultAtlas(c.DefaultAtlas))
	}
	return opts
}

// LoadConfig loads every atlas listed in cfg. It stops at the first failure.
func (p *AtlasPool) LoadConfig(cfg *Config) error {
	for _, a := range cfg.Atlases {
		if err := p.LoadAtlas(a.Name, a.Descriptor, a.Image); err != nil {
			return err
		}
	}
	return nil
}
