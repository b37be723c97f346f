package output

import (
	"bufio"
	"fmt"
	"io"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// PPMWriter streams an ASCII PPM (P3) image
type PPMWriter struct {
	w         *bufio.Writer
	remaining int
	started   bool
}

// NewPPMWriter creates a writer that buffers output to w
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the magic, dimensions and max channel value
func (p *PPMWriter) WriteHeader(width, height int) error {
	if p.started {
		return errorsmod.Wrap(core.ErrOutput, "ppm header already written")
	}
	if width <= 0 || height <= 0 {
		return errorsmod.Wrapf(core.ErrOutput, "invalid image size %dx%d", width, height)
	}
	p.started = true
	p.remaining = width * height
	if _, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", width, height); err != nil {
		return errorsmod.Wrap(core.ErrOutput, err.Error())
	}
	return nil
}

// WritePixel writes one "r g b" line
func (p *PPMWriter) WritePixel(color core.Vec3) error {
	if !p.started {
		return errorsmod.Wrap(core.ErrOutput, "ppm pixel written before header")
	}
	if p.remaining == 0 {
		return errorsmod.Wrap(core.ErrOutput, "ppm pixel written past the end of the image")
	}
	p.remaining--
	r, g, b := ToBytes(color)
	if _, err := fmt.Fprintf(p.w, "%d %d %d\n", r, g, b); err != nil {
		return errorsmod.Wrap(core.ErrOutput, err.Error())
	}
	return nil
}

// Close flushes buffered output. Closing an incomplete image is an error, but
// whatever was written is still flushed.
func (p *PPMWriter) Close() error {
	if err := p.w.Flush(); err != nil {
		return errorsmod.Wrap(core.ErrOutput, err.Error())
	}
	if p.remaining > 0 {
		return errorsmod.Wrapf(core.ErrOutput, "ppm image closed with %d pixels missing", p.remaining)
	}
	return nil
}
