package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Server renders registered scenes over HTTP
type Server struct {
	registry *scene.Registry
	logger   zerolog.Logger
}

// NewServer creates a new web server
func NewServer(registry *scene.Registry, logger zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		logger:   logger.With().Str("component", "server").Logger(),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string // Scene ID from the registry
	Width   int    // Image width
	Samples int    // Samples per pixel
	Depth   int    // Maximum bounce depth
	Seed    int64  // Scene layout and sampling seed
	Workers int    // Parallel row workers
	Format  string // ppm or png
}

// Handler returns the routed HTTP handler with CORS enabled
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/scenes", s.handleScenes).Methods(http.MethodGet)
	api.HandleFunc("/render/{scene}", s.handleRender).Methods(http.MethodGet)

	return cors.AllowAll().Handler(r)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Msg("starting web server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the registered scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

// handleRender renders the requested scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(mux.Vars(r)["scene"], r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := s.registry.Lookup(req.Scene, core.NewSeededSampler(req.Seed))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	rt, err := sc.NewRaytracer(
		renderer.CameraConfig{Width: req.Width},
		renderer.SamplingConfig{SamplesPerPixel: req.Samples, MaxDepth: req.Depth},
		renderer.NopLogger(),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Render fully before responding so failures can still set the status
	var buf bytes.Buffer
	img, err := output.New(req.Format, &buf, "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stats, err := rt.Render(r.Context(), img, renderer.RenderOptions{Seed: req.Seed, Workers: req.Workers})
	if err == nil {
		err = img.Close()
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("scene", req.Scene).Msg("render failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info().
		Str("scene", req.Scene).
		Int("width", stats.Width).
		Int("height", stats.Height).
		Int("samples", stats.TotalSamples).
		Dur("duration", stats.Duration).
		Msg("render complete")

	contentType := "image/x-portable-pixmap"
	if req.Format == output.FormatPNG {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseRenderRequest parses request parameters
func parseRenderRequest(sceneID string, values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: sceneID}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 10, 1, 10000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 50, 1, 1000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	format := values.Get("format")
	if format == "" {
		format = output.FormatPNG
	}
	if req.Format, err = output.ResolveFormat(format, ""); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
