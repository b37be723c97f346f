package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.Render.Width != 400 || cfg.Render.SamplesPerPixel != 100 || cfg.Render.MaxDepth != 50 || cfg.Render.Seed != 42 {
		t.Errorf("Unexpected render defaults %+v", cfg.Render)
	}
	if cfg.Output.Path != "-" || cfg.Output.Format != "" {
		t.Errorf("Unexpected output defaults %+v", cfg.Output)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTest(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pathtracer.yaml")
	content := `render:
  scene: three-spheres
  width: 320
  workers: 4
camera:
  vfov: 30
output:
  path: out.png
  format: ""
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATHTRACER_RENDER_SEED", "7")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Render.Scene != "three-spheres" || cfg.Render.Width != 320 || cfg.Render.Workers != 4 {
		t.Errorf("File values not applied: %+v", cfg.Render)
	}
	if cfg.Render.Seed != 7 {
		t.Errorf("Expected env seed 7, got %d", cfg.Render.Seed)
	}
	if cfg.Render.SamplesPerPixel != 100 || cfg.Log.Level != "info" {
		t.Errorf("Unset keys should keep defaults: %+v", cfg)
	}
	if cfg.Camera.VFov != 30 || cfg.CameraOverride().VFov != 30 || cfg.CameraOverride().Width != 320 {
		t.Errorf("Camera override not applied: %+v", cfg.Camera)
	}
	if opts := cfg.RenderOptions(); opts.Seed != 7 || opts.Workers != 4 {
		t.Errorf("Unexpected render options %+v", opts)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(viper.New(), filepath.Join(dir, "missing.yaml")); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a missing explicit file, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("render:\n  width: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(viper.New(), bad); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a negative width, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty scene", func(c *Config) { c.Render.Scene = "" }},
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"zero samples", func(c *Config) { c.Render.SamplesPerPixel = 0 }},
		{"zero depth", func(c *Config) { c.Render.MaxDepth = 0 }},
		{"negative workers", func(c *Config) { c.Render.Workers = -1 }},
		{"fov too wide", func(c *Config) { c.Camera.VFov = 180 }},
		{"negative focus", func(c *Config) { c.Camera.FocusDistance = -1 }},
		{"negative defocus", func(c *Config) { c.Camera.DefocusAngle = -0.1 }},
		{"negative aspect", func(c *Config) { c.Camera.AspectRatio = -1 }},
		{"empty output path", func(c *Config) { c.Output.Path = "" }},
		{"unknown format", func(c *Config) { c.Output.Format = "exr" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSave_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pathtracer.yaml")
	cfg := Default()
	cfg.Render.Scene = "single-sphere"
	cfg.Render.Workers = 2
	cfg.Camera.DefocusAngle = 1.5
	cfg.Log.Pretty = true

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "samples_per_pixel: 100") {
		t.Errorf("Expected snake_case YAML keys, got:\n%s", data)
	}

	loaded, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Expected %+v, got %+v", cfg, loaded)
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn"}.NewLogger(&buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("Expected JSON warn line, got %s", out)
	}

	if _, err := (LogConfig{Level: "trace"}).NewLogger(&buf); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an unsupported level, got %v", err)
	}
}

func TestLoad_FormatFollowsOutputExtension(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTest(t, t.TempDir())

	tests := []struct {
		name   string
		path   string
		format string
		want   string
	}{
		{"png extension", "render.png", "", output.FormatPNG},
		{"ppm extension", "render.ppm", "", output.FormatPPM},
		{"stdout", "-", "", output.FormatPPM},
		{"explicit format wins", "render.png", "ppm", output.FormatPPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("output.path", tt.path)
			if tt.format != "" {
				v.Set("output.format", tt.format)
			}

			cfg, err := Load(v, "")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			got, err := output.ResolveFormat(cfg.Output.Format, cfg.Output.Path)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Expected %s for path %q (format %q), got %s", tt.want, tt.path, cfg.Output.Format, got)
			}
		})
	}
}

// chdirTest changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir on older toolchains).
func chdirTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
