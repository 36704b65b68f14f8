package sink

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/relline/pkg/overlay"
)

var (
	pngBackground = color.White
	pngOutline    = color.RGBA{173, 181, 189, 255} // #adb5bd
	pngBound      = color.RGBA{73, 80, 87, 255}    // #495057
	pngFallback   = color.Black
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGLabels writes element labels inside their outlines.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = true } }

// RenderPNG rasterizes the frame and connectors. Connector fills that cannot
// be parsed fall back to black, the SVG default.
func RenderPNG(f Frame, connectors []overlay.Connector, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %g", r.scale)
	}

	w, h := int(f.Width*r.scale+0.5), int(f.Height*r.scale+0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame size %gx%g", f.Width, f.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(pngBackground)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	if len(f.Elements) > 0 {
		if err := r.drawElements(dc, f); err != nil {
			return nil, err
		}
	}

	for _, c := range connectors {
		drawConnectorPNG(dc, c)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) drawElements(dc *gg.Context, f Frame) error {
	if r.labels {
		ttf, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return fmt.Errorf("parse font: %w", err)
		}
		dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
			Size:    11,
			DPI:     72,
			Hinting: font.HintingFull,
		}))
	}

	dc.SetLineWidth(1)
	for _, e := range f.Elements {
		v := e.View
		if e.ID == f.BoundID {
			dc.SetColor(pngBound)
			dc.SetDash(4, 3)
		} else {
			dc.SetColor(pngOutline)
			dc.SetDash()
		}
		dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
		dc.Stroke()

		if r.labels && e.ID != f.BoundID {
			dc.SetColor(pngBound)
			dc.DrawString(e.DisplayLabel(), v.X+4, v.Y+14)
		}
	}
	dc.SetDash()
	return nil
}

// drawConnectorPNG fills the quad in host-box local coordinates, translated
// to the box origin, then strokes its outline.
func drawConnectorPNG(dc *gg.Context, c overlay.Connector) {
	h := c.Quad.Host

	dc.Push()
	defer dc.Pop()
	dc.Translate(h.Left, h.Top)

	for i, p := range c.Quad.Local {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.ClosePath()

	dc.SetColor(colorOr(c.Fill, pngFallback))
	dc.FillPreserve()
	dc.SetLineWidth(1)
	dc.SetColor(colorOr(c.Stroke, color.Transparent))
	dc.Stroke()
}
