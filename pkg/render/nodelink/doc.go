// Package nodelink renders scenes as node-link diagrams.
//
// # Overview
//
// Where the sink package draws connectors at their real positions, this
// package shows only the topology: elements as boxes, relations as edges
// colored like their connectors. It is useful for checking a scene file
// before its geometry is right.
//
// # Usage
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The bounding element becomes a dashed cluster. Relations that name
// unknown elements produce dotted nodes so dangling ids stand out.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
