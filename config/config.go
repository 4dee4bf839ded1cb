// Package config loads the YAML configuration of img2anim and applies
// settings patches to effect parameters.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bmatsuo/img2anim/fx"
)

type Config struct {
	FrameRate int     `yaml:"frame_rate"`
	LogLevel  string  `yaml:"log_level"`
	Effect    fx.Kind `yaml:"effect"`
	Export    Export  `yaml:"export"`
	Preview   Preview `yaml:"preview"`

	// Patch holds settings for Effect.  It is ignored for other effects.
	Patch yaml.Node `yaml:"settings"`
}

type Export struct {
	Format   string `yaml:"format"`
	MaxSize  int    `yaml:"max_size"`
	Square   bool   `yaml:"square"`
	Dir      string `yaml:"dir"`
	Quality  int    `yaml:"quality"`
	Lossless bool   `yaml:"lossless"`
}

type Preview struct {
	MaxSize    int     `yaml:"max_size"`
	Square     bool    `yaml:"square"`
	Palette    string  `yaml:"palette"`
	FontAspect float64 `yaml:"font_aspect"`
}

func Default() *Config {
	return &Config{
		FrameRate: fx.DefaultFrameRate,
		LogLevel:  "info",
		Effect:    fx.KindRotate,
		Export: Export{
			Format:  "gif",
			MaxSize: 800,
			Dir:     ".",
			Quality: 90,
		},
		Preview: Preview{
			MaxSize:    600,
			Palette:    "256",
			FontAspect: 0.5,
		},
	}
}

// Load reads the file at path over the defaults.  Keys the configuration
// does not define are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	k, err := fx.ParseKind(string(c.Effect))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.Effect = k
	return c, nil
}

// Settings returns the settings of effect k: its defaults, patched by the
// configured settings when k is the configured effect.
func (c *Config) Settings(k fx.Kind) (fx.Settings, error) {
	s, err := fx.Defaults(k)
	if err != nil {
		return nil, err
	}
	if k != c.Effect {
		return s, nil
	}
	return ApplyPatch(s, &c.Patch)
}
