package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/relline/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes each element's rectangle in its label.
	// When false, only the label (or id) is shown.
	Detailed bool

	// DefaultColor colors edges of relations that carry no color.
	DefaultColor string
}

// ToDOT converts a scene to Graphviz DOT format. Elements become boxes and
// relations become edges from start to end, colored like their connectors.
// The bounding element is drawn as a dashed cluster around every other
// element.
//
// Relations that reference unknown elements still produce edges; Graphviz
// adds the missing nodes with a dotted outline.
func ToDOT(s *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none, penwidth=4];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(s.Elements))
	indent := "  "
	if _, ok := s.Element(s.BoundID); ok {
		fmt.Fprintf(&buf, "  subgraph \"cluster_%s\" {\n", escape(s.BoundID))
		fmt.Fprintf(&buf, "    label=%q;\n    style=dashed;\n    color=\"#495057\";\n", s.BoundID)
		indent = "    "
		known[s.BoundID] = true
	}
	for _, e := range s.Elements {
		if e.ID == s.BoundID {
			continue
		}
		known[e.ID] = true
		fmt.Fprintf(&buf, "%s%q [label=%q];\n", indent, e.ID, fmtLabel(e, opts.Detailed))
	}
	if indent != "  " {
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, r := range s.Relations {
		for _, id := range []string{r.StartID, r.EndID} {
			if !known[id] {
				known[id] = true
				fmt.Fprintf(&buf, "  %q [style=\"rounded,dotted\"];\n", id)
			}
		}
		attrs := ""
		if c := edgeColor(r.Color, opts.DefaultColor); c != "" {
			attrs = fmt.Sprintf(" [color=%q]", c)
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", r.StartID, r.EndID, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e scene.Element, detailed bool) string {
	if !detailed {
		return e.DisplayLabel()
	}
	parts := []string{e.DisplayLabel(), e.Rect().String()}
	if e.Fixed {
		parts = append(parts, "fixed")
	}
	return strings.Join(parts, "\n")
}

func edgeColor(color, fallback string) string {
	if color != "" {
		return color
	}
	return fallback
}

func escape(s string) string { return strings.ReplaceAll(s, `"`, `\"`) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a pixel
// viewBox so the diagram scales like the connector SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
