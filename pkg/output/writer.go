package output

import (
	"io"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Supported image formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// Writer is an image sink that must be closed to finish the file
type Writer interface {
	WriteHeader(width, height int) error
	WritePixel(color core.Vec3) error
	Close() error
}

// Formats returns the supported format names
func Formats() []string {
	return []string{FormatPPM, FormatPNG}
}

// ResolveFormat picks the format by name, falling back to the extension of
// path and then to PPM
func ResolveFormat(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png":
			return FormatPNG, nil
		default:
			return FormatPPM, nil
		}
	}

	switch format {
	case FormatPPM, FormatPNG:
		return format, nil
	default:
		return "", errorsmod.Wrapf(core.ErrOutput, "unsupported format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// New creates an image writer for format writing to w. path is only used to
// infer the format when none is given.
func New(format string, w io.Writer, path string) (Writer, error) {
	resolved, err := ResolveFormat(format, path)
	if err != nil {
		return nil, err
	}
	if resolved == FormatPNG {
		return NewPNGWriter(w), nil
	}
	return NewPPMWriter(w), nil
}
