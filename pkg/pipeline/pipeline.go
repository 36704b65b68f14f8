// Package pipeline turns a scene into rendered artifacts.
//
// It runs the same overlay lifecycle a live page would (Init, one settled
// draw pass, Close) against an in-memory page, then hands the drawn
// connectors to the requested sinks. The CLI and the HTTP server both go
// through a [Runner] so they produce identical bytes and share caching.
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	result, err := runner.Render(ctx, s, pipeline.Options{Formats: []string{"svg", "png"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"      // connector overlay as SVG
	FormatPNG      = "png"      // connector overlay rasterized
	FormatJSON     = "json"     // connector geometry
	FormatDOT      = "dot"      // Graphviz source of the scene topology
	FormatNodelink = "nodelink" // the DOT source rendered to SVG
)

// DefaultScale is the PNG scale factor when none is set.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatNodelink {
		return "nodelink.svg"
	}
	return format
}

// ContentType returns the MIME type of a format's artifact.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatNodelink:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "application/octet-stream"
}

// ParseFormats splits a comma-separated format list. Empty means svg.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidateFormats checks that all requested formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be svg, png, json, dot or nodelink)", f)
		}
	}
	return nil
}

// Options configures one render.
type Options struct {
	Formats []string `json:"formats,omitempty"`

	// Elements outlines every element and highlights the bound.
	Elements bool `json:"elements,omitempty"`
	// Labels writes element labels; it implies Elements.
	Labels bool `json:"labels,omitempty"`
	// Scale is the PNG scale factor.
	Scale float64 `json:"scale,omitempty"`
	// Detailed adds element rectangles to DOT labels.
	Detailed bool `json:"detailed,omitempty"`

	StrokeColor  string `json:"stroke_color,omitempty"`
	DefaultColor string `json:"default_color,omitempty"`

	// Scroll, when set, replaces the scene's scroll offset.
	Scroll *geom.Point `json:"scroll,omitempty"`

	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills in defaults and checks the options.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Labels {
		o.Elements = true
	}
	if o.StrokeColor == "" {
		o.StrokeColor = overlay.DefaultStroke
	}
	if o.DefaultColor == "" {
		o.DefaultColor = overlay.DefaultFill
	}
	return nil
}

// Result contains the outputs of a render.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats describes the draw pass. It is zero when every artifact came
	// from the cache.
	Stats Stats

	// Cached lists the formats served from the cache.
	Cached []string
}

// Stats contains draw pass and timing information.
type Stats struct {
	Drawn      int
	Skipped    int
	Reasons    map[overlay.SkipReason]int
	RenderTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d drawn, %d skipped", s.Drawn, s.Skipped)
}
