package output

import (
	"io"

	errorsmod "cosmossdk.io/errors"
	"github.com/fogleman/gg"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// PNGWriter paints pixels onto a gg context and encodes it on Close
type PNGWriter struct {
	w      io.Writer
	ctx    *gg.Context
	width  int
	next   int
	closed bool
}

// NewPNGWriter creates a writer that encodes to w when closed
func NewPNGWriter(w io.Writer) *PNGWriter {
	return &PNGWriter{w: w}
}

// WriteHeader allocates the canvas
func (p *PNGWriter) WriteHeader(width, height int) error {
	if p.ctx != nil {
		return errorsmod.Wrap(core.ErrOutput, "png header already written")
	}
	if width <= 0 || height <= 0 {
		return errorsmod.Wrapf(core.ErrOutput, "invalid image size %dx%d", width, height)
	}
	p.ctx = gg.NewContext(width, height)
	p.width = width
	return nil
}

// WritePixel paints the next pixel in row-major order
func (p *PNGWriter) WritePixel(color core.Vec3) error {
	if p.ctx == nil {
		return errorsmod.Wrap(core.ErrOutput, "png pixel written before header")
	}
	if p.next >= p.width*p.ctx.Height() {
		return errorsmod.Wrap(core.ErrOutput, "png pixel written past the end of the image")
	}

	r, g, b := ToBytes(color)
	p.ctx.SetRGB255(r, g, b)
	p.ctx.SetPixel(p.next%p.width, p.next/p.width)
	p.next++
	return nil
}

// Close encodes the image
func (p *PNGWriter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.ctx == nil {
		return errorsmod.Wrap(core.ErrOutput, "png closed before header")
	}
	if missing := p.width*p.ctx.Height() - p.next; missing > 0 {
		return errorsmod.Wrapf(core.ErrOutput, "png image closed with %d pixels missing", missing)
	}
	if err := p.ctx.EncodePNG(p.w); err != nil {
		return errorsmod.Wrap(core.ErrOutput, err.Error())
	}
	return nil
}
