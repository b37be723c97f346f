package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-sphere-pathtracer/pkg/config"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"github.com/df07/go-sphere-pathtracer/web/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli holds state shared by every command
type cli struct {
	v        *viper.Viper
	cfgFile  string
	verbose  bool
	registry *scene.Registry
}

func newRootCmd() *cobra.Command {
	c := &cli{
		v:        viper.New(),
		registry: scene.DefaultRegistry(),
	}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "pathtracer",
		Short: "Monte Carlo sphere path tracer",
		Long: `Renders scenes made of spheres with diffuse, metal and glass materials
using recursive Monte Carlo path tracing. Images are written as PPM or PNG.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./pathtracer.yaml or $HOME/.pathtracer/pathtracer.yaml)")
	rootCmd.PersistentFlags().String("log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	_ = c.v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		c.renderCmd(defaults),
		c.scenesCmd(),
		c.configCmd(),
		c.serveCmd(),
	)

	return rootCmd
}

// loadConfig resolves flags, environment, config file and defaults
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (c *cli) renderCmd(defaults *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return c.render(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.String("scene", defaults.Render.Scene, "scene to render (see 'pathtracer scenes')")
	flags.Int("width", defaults.Render.Width, "image width in pixels")
	flags.Int("samples", defaults.Render.SamplesPerPixel, "samples per pixel")
	flags.Int("max-depth", defaults.Render.MaxDepth, "maximum ray bounce depth")
	flags.Int64("seed", defaults.Render.Seed, "random seed for scene layout and sampling")
	flags.Int("workers", defaults.Render.Workers, "parallel row workers (0 renders sequentially)")
	flags.StringP("output", "o", defaults.Output.Path, "output file, - for stdout")
	flags.String("format", "", "image format: ppm or png (default from output extension)")

	bindings := map[string]string{
		"render.scene":             "scene",
		"render.width":             "width",
		"render.samples_per_pixel": "samples",
		"render.max_depth":         "max-depth",
		"render.seed":              "seed",
		"render.workers":           "workers",
		"output.path":              "output",
		"output.format":            "format",
	}
	for key, flag := range bindings {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func (c *cli) render(ctx context.Context, cfg *config.Config, stdout io.Writer, logger zerolog.Logger) error {
	// Scene layout draws from its own generator so it does not depend on pixel sampling
	s, err := c.registry.Lookup(cfg.Render.Scene, core.NewSeededSampler(cfg.Render.Seed))
	if err != nil {
		return err
	}

	rt, err := s.NewRaytracer(cfg.CameraOverride(), cfg.SamplingOverride(), renderer.NewZerologLogger(logger))
	if err != nil {
		return err
	}

	dst, closeDst, err := openOutput(cfg.Output.Path, stdout)
	if err != nil {
		return err
	}
	defer closeDst()

	w, err := output.New(cfg.Output.Format, dst, cfg.Output.Path)
	if err != nil {
		return err
	}

	camera := rt.Camera()
	logger.Info().
		Str("scene", s.Name).
		Int("primitives", s.GetPrimitiveCount()).
		Int("width", camera.Width()).
		Int("height", camera.Height()).
		Int("samples_per_pixel", camera.Sampling().SamplesPerPixel).
		Int("max_depth", camera.Sampling().MaxDepth).
		Int("workers", cfg.Render.Workers).
		Msg("starting render")

	stats, renderErr := rt.Render(ctx, w, cfg.RenderOptions())
	closeErr := w.Close()
	if renderErr != nil {
		return renderErr
	}
	if closeErr != nil {
		return closeErr
	}

	logger.Info().
		Dur("duration", stats.Duration).
		Int("pixels", stats.TotalPixels).
		Int("samples", stats.TotalSamples).
		Float64("mean_luminance", stats.MeanLuminance).
		Float64("stddev_luminance", stats.StdDevLuminance).
		Str("output", cfg.Output.Path).
		Msg("render complete")
	return nil
}

// openOutput returns stdout for "-", otherwise creates the file and its directory
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "-" {
		return stdout, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, errorsmod.Wrapf(core.ErrOutput, "creating output directory: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errorsmod.Wrapf(core.ErrOutput, "creating output file: %v", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func (c *cli) scenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List available scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range c.registry.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", info.ID, info.Description)
			}
			return nil
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return errorsmod.Wrapf(core.ErrInvalidConfig, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			return server.NewServer(c.registry, logger).Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "address to listen on")
	return cmd
}
