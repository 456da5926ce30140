package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"wscss/engine"
	"wscss/project"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	EngineConfig struct {
		Indent    int    `yaml:"indent" validate:"min=0,max=8"`
		MediaType string `yaml:"media_type" validate:"required"`
		Merge     bool   `yaml:"merge"`
		Prefix    bool   `yaml:"prefix"`
	}

	AtomicConfig struct {
		ClassPrefix string `yaml:"class_prefix" validate:"required,alpha"`
		HashLength  int    `yaml:"hash_length" validate:"min=4,max=13"`
	}

	AssetsConfig struct {
		BaseURL   string `yaml:"base_url"`
		Directory string `yaml:"directory,omitempty" validate:"omitempty,dir"`
	}

	FontsConfig struct {
		Fallbacks map[string][]string `yaml:"fallbacks" validate:"dive,dive,required"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Engine  EngineConfig  `yaml:"engine"`
		Atomic  AtomicConfig  `yaml:"atomic"`
		Assets  AssetsConfig  `yaml:"assets"`
		Fonts   FontsConfig   `yaml:"fonts"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func (c *EngineConfig) Options() engine.Options {
	return engine.Options{
		MediaType: c.MediaType,
		Indent:    c.Indent,
		Merge:     c.Merge,
		Prefix:    c.Prefix,
	}
}

// AtomicOptions returns generator options, key and transform are left for
// the caller.
func (c *AtomicConfig) AtomicOptions() engine.AtomicOptions {
	return engine.AtomicOptions{ClassPrefix: c.ClassPrefix, HashLength: c.HashLength}
}

func (c *Config) BuildOptions() project.BuildOptions {
	return project.BuildOptions{
		Engine:        c.Engine.Options(),
		AssetBase:     c.Assets.BaseURL,
		AssetDir:      c.Assets.Directory,
		FontFallbacks: c.Fonts.Fallbacks,
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template and
// performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare expands the configuration template.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
