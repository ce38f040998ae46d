package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"headlesskit/internal/carousel"
	"headlesskit/internal/combobox"
	"headlesskit/internal/domain"
	"headlesskit/internal/eventbus"
)

// FileName is the config file looked up in the working directory.
const FileName = ".headlesskit.toml"

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version"`
	Carousel CarouselConfig `toml:"carousel"`
	Combobox ComboboxConfig `toml:"combobox"`
	UI       UISettings     `toml:"ui"`
}

// CarouselConfig describes the demo carousel
type CarouselConfig struct {
	Slides          []string `toml:"slides"`
	SlidesPerView   int      `toml:"slides_per_view" validate:"gte=1"`
	Gap             float64  `toml:"gap" validate:"gte=0"`
	Align           string   `toml:"align" validate:"oneof=start center end"`
	Loop            bool     `toml:"loop"`
	Draggable       bool     `toml:"draggable"`
	StepInteraction bool     `toml:"step_interaction"`
	Autoplay        bool     `toml:"autoplay"`
	IntervalMs      int      `toml:"interval_ms" validate:"gte=0"`
	StartIndex      int      `toml:"start_index" validate:"gte=0"`
}

// ComboboxConfig describes the demo combobox
type ComboboxConfig struct {
	Options      []any         `toml:"options"`
	OptionsFile  string        `toml:"options_file"` // overrides options when set
	Keys         combobox.Keys `toml:"keys"`
	DefaultLabel string        `toml:"default_label"`
	Filter       string        `toml:"filter" validate:"omitempty,oneof=contains prefix fuzzy"`
	Loop         bool          `toml:"loop"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowHelp     bool `toml:"show_help"`
	ShowProgress bool `toml:"show_progress"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for the file at path. An empty
// path means FileName in the working directory.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = FileName
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration, falling back to defaults when the file
// does not exist.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		log.Printf("No config at %s, using defaults", cs.filePath)
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Fields absent
// from the file keep their defaults; unknown fields and invalid values are
// reported as ErrConfig.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Combobox.OptionsFile != "" && !filepath.IsAbs(cfg.Combobox.OptionsFile) {
		cfg.Combobox.OptionsFile = filepath.Join(filepath.Dir(path), cfg.Combobox.OptionsFile)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

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
	log.Printf("Config saved to %s", path)
	return nil
}

// Parse decodes TOML onto the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: failed to parse config: %v", domain.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config's value constraints.
func (c *Config) Validate() error {
	return domain.Validate(c)
}

// CarouselOptions converts the carousel section into mount options. The
// slide count comes from the slide list.
func (c *Config) CarouselOptions() carousel.Options {
	cc := c.Carousel
	return carousel.Options{
		Layout: carousel.Layout{
			SlidesPerView:      cc.SlidesPerView,
			Gap:                cc.Gap,
			Align:              domain.Align(cc.Align),
			Loop:               cc.Loop,
			Draggable:          cc.Draggable,
			StepInteraction:    cc.StepInteraction,
			AutoPlayIntervalMs: cc.IntervalMs,
		},
		NumSlides:  len(cc.Slides),
		StartIndex: cc.StartIndex,
		Autoplay:   cc.Autoplay,
	}
}

// ComboboxOptions converts the combobox section into a combobox config
// using options as the option set.
func (c *Config) ComboboxOptions(options []any) combobox.Config {
	return combobox.Config{
		Options:      options,
		Keys:         c.Combobox.Keys,
		DefaultLabel: c.Combobox.DefaultLabel,
		Loop:         c.Combobox.Loop,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Carousel: CarouselConfig{
			Slides: []string{
				"Welcome to headlesskit",
				"Carousel state lives outside the view",
				"Autoplay ticks on a cancellable timer",
				"Drag snaps to the nearest slide",
				"The combobox filters as you type",
			},
			SlidesPerView: 1,
			Align:         string(domain.AlignStart),
			Draggable:     true,
			IntervalMs:    3000,
		},
		Combobox: ComboboxConfig{
			Options: []any{"Apple", "Banana", "Cherry", "Grape", "Mango", "Papaya"},
			Keys:    combobox.DefaultKeys(),
			Filter:  string(domain.FilterContains),
		},
		UI: UISettings{
			ShowHelp:     true,
			ShowProgress: true,
		},
	}
}
