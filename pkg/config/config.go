package config

import (
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// File lookup defaults
const (
	ConfigName = "pathtracer"
	EnvPrefix  = "PATHTRACER"
)

// Config represents the path tracer configuration
type Config struct {
	Render RenderConfig    `yaml:"render" mapstructure:"render"`
	Camera CameraOverrides `yaml:"camera" mapstructure:"camera"`
	Output OutputConfig    `yaml:"output" mapstructure:"output"`
	Log    LogConfig       `yaml:"log" mapstructure:"log"`
}

// RenderConfig selects the scene and sampling budget
type RenderConfig struct {
	Scene           string `yaml:"scene" mapstructure:"scene"`
	Width           int    `yaml:"width" mapstructure:"width"`
	SamplesPerPixel int    `yaml:"samples_per_pixel" mapstructure:"samples_per_pixel"`
	MaxDepth        int    `yaml:"max_depth" mapstructure:"max_depth"`
	Seed            int64  `yaml:"seed" mapstructure:"seed"`
	Workers         int    `yaml:"workers" mapstructure:"workers"`
}

// CameraOverrides replaces scene camera settings; zero keeps the scene value
type CameraOverrides struct {
	VFov          float64 `yaml:"vfov" mapstructure:"vfov"`
	FocusDistance float64 `yaml:"focus_distance" mapstructure:"focus_distance"`
	DefocusAngle  float64 `yaml:"defocus_angle" mapstructure:"defocus_angle"`
	AspectRatio   float64 `yaml:"aspect_ratio" mapstructure:"aspect_ratio"`
}

// OutputConfig says where the image goes. Path "-" is stdout.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Scene:           scene.RandomSpheres,
			Width:           400,
			SamplesPerPixel: 100,
			MaxDepth:        50,
			Seed:            42,
			Workers:         0,
		},
		Output: OutputConfig{
			Path: "-",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers every key with its default so environment variables
// and unmarshalling see the full key set
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("render.scene", d.Render.Scene)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.samples_per_pixel", d.Render.SamplesPerPixel)
	v.SetDefault("render.max_depth", d.Render.MaxDepth)
	v.SetDefault("render.seed", d.Render.Seed)
	v.SetDefault("render.workers", d.Render.Workers)
	v.SetDefault("camera.vfov", d.Camera.VFov)
	v.SetDefault("camera.focus_distance", d.Camera.FocusDistance)
	v.SetDefault("camera.defocus_angle", d.Camera.DefocusAngle)
	v.SetDefault("camera.aspect_ratio", d.Camera.AspectRatio)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// Load reads configuration with precedence flags > env > file > defaults.
// An empty configFile searches ./pathtracer.yaml and $HOME/.pathtracer; a
// missing file is not an error unless it was named explicitly.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".pathtracer"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errorsmod.Wrapf(core.ErrInvalidConfig, "error reading config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errorsmod.Wrapf(core.ErrInvalidConfig, "error unmarshaling config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on values the renderer cannot use
func (c *Config) Validate() error {
	switch {
	case c.Render.Scene == "":
		return errorsmod.Wrap(core.ErrInvalidConfig, "render.scene cannot be empty")
	case c.Render.Width <= 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "render.width must be positive, got %d", c.Render.Width)
	case c.Render.SamplesPerPixel <= 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "render.samples_per_pixel must be positive, got %d", c.Render.SamplesPerPixel)
	case c.Render.MaxDepth <= 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "render.max_depth must be positive, got %d", c.Render.MaxDepth)
	case c.Render.Workers < 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "render.workers cannot be negative, got %d", c.Render.Workers)
	case c.Camera.VFov < 0 || c.Camera.VFov >= 180:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "camera.vfov must be in (0, 180) degrees or 0 for the scene default, got %g", c.Camera.VFov)
	case c.Camera.FocusDistance < 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "camera.focus_distance cannot be negative, got %g", c.Camera.FocusDistance)
	case c.Camera.DefocusAngle < 0 || c.Camera.DefocusAngle >= 180:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "camera.defocus_angle must be in [0, 180) degrees, got %g", c.Camera.DefocusAngle)
	case c.Camera.AspectRatio < 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "camera.aspect_ratio cannot be negative, got %g", c.Camera.AspectRatio)
	case c.Output.Path == "":
		return errorsmod.Wrap(core.ErrInvalidConfig, "output.path cannot be empty (use - for stdout)")
	}

	if _, err := output.ResolveFormat(c.Output.Format, c.Output.Path); err != nil {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "output.format: %v", err)
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	return nil
}

// CameraOverride returns the camera fields that replace the scene defaults
func (c *Config) CameraOverride() renderer.CameraConfig {
	return renderer.CameraConfig{
		Width:         c.Render.Width,
		AspectRatio:   c.Camera.AspectRatio,
		VFov:          c.Camera.VFov,
		FocusDistance: c.Camera.FocusDistance,
		DefocusAngle:  c.Camera.DefocusAngle,
	}
}

// SamplingOverride returns the sampling budget
func (c *Config) SamplingOverride() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		SamplesPerPixel: c.Render.SamplesPerPixel,
		MaxDepth:        c.Render.MaxDepth,
	}
}

// RenderOptions returns the scheduling options
func (c *Config) RenderOptions() renderer.RenderOptions {
	return renderer.RenderOptions{
		Seed:    c.Render.Seed,
		Workers: c.Render.Workers,
	}
}

// Marshal encodes the configuration as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errorsmod.Wrapf(core.ErrInvalidConfig, "failed to marshal config: %v", err)
	}
	return data, nil
}

// Save writes the configuration to path as YAML, creating parent directories
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errorsmod.Wrapf(core.ErrInvalidConfig, "failed to create config directory: %v", err)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errorsmod.Wrapf(core.ErrInvalidConfig, "failed to write config file: %v", err)
	}
	return nil
}
