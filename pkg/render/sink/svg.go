package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/scene"
)

const elementCSS = `
    .element { fill: none; stroke: #adb5bd; stroke-width: 1; }
    .element.bound { stroke: #495057; stroke-dasharray: 4 3; }
    .element-label { font: 12px monospace; fill: #495057; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	class  string
}

// WithLabels writes each element's label inside its outline.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithClass sets the class attribute of every connector surface.
func WithClass(class string) SVGOption { return func(r *svgRenderer) { r.class = class } }

// RenderSVG renders the connectors over the frame as a standalone SVG
// document. Each connector becomes a nested <svg> placed at its host box
// with a polygon in local coordinates, mirroring how an overlay positions
// one fixed surface per connector.
func RenderSVG(f Frame, connectors []overlay.Connector, opts ...SVGOption) []byte {
	r := svgRenderer{class: "relation-line"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(f.Width), num(f.Height), f.Width, f.Height)

	if len(f.Elements) > 0 {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", elementCSS)
		for _, e := range f.Elements {
			renderElement(&buf, e, e.ID == f.BoundID, r.labels)
		}
	}
	for _, c := range connectors {
		renderConnector(&buf, c, r.class)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderElement(buf *bytes.Buffer, e scene.Placed, bound, label bool) {
	class := "element"
	if bound {
		class += " bound"
	}
	fmt.Fprintf(buf, `  <rect id="element-%s" class="%s" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
		attr(e.ID), class, num(e.View.X), num(e.View.Y), num(e.View.Width), num(e.View.Height))
	if label && !bound {
		fmt.Fprintf(buf, `  <text class="element-label" x="%s" y="%s">%s</text>`+"\n",
			num(e.View.X+4), num(e.View.Y+14), html.EscapeString(e.DisplayLabel()))
	}
}

func renderConnector(buf *bytes.Buffer, c overlay.Connector, class string) {
	h := c.Quad.Host
	fmt.Fprintf(buf, `  <svg class="%s" data-start="%s" data-end="%s" x="%s" y="%s" width="%s" height="%s" overflow="visible">`+"\n",
		attr(class), attr(c.Relation.StartID), attr(c.Relation.EndID),
		num(h.Left), num(h.Top), num(h.Width), num(h.Height))
	fmt.Fprintf(buf, `    <polygon points="%s" fill="%s" stroke="%s"/>`+"\n",
		points(c.Quad.Local), attr(c.Fill), attr(c.Stroke))
	buf.WriteString("  </svg>\n")
}

// points formats polygon points as "x,y x,y ...".
func points(pts [4]geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num formats a coordinate without trailing zeros.
func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func attr(s string) string { return html.EscapeString(s) }
