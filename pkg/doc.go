// Package pkg provides the core libraries of relline.
//
// # Overview
//
// relline draws a connector between two related elements of a page: the
// quadrilateral joining the right edge of the start element to the left edge
// of the end element. Connectors are only drawn while both elements sit
// inside a bounding element, and they are cleared and redrawn whenever the
// page scrolls or resizes.
//
// # Architecture
//
//	scene file (JSON/TOML)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [scene] package (live page: rects, scroll and resize events)
//	         ↓
//	    [overlay] package (subscriptions, settle delay, draw pass)
//	         ↓
//	    [render/sink] package (SVG, PNG, JSON, terminal cells)
//
// # Main Packages
//
// [geom] - Points, rectangles, the connector quad and the bound scope check.
// All of it is pure.
//
// [relation] - The start/end/color triple the overlay draws.
//
// [refresh] - The debounced scheduler: every request clears at once and the
// latest one draws after the settle delay.
//
// [overlay] - Ties a document, its events and a renderer together. Setup
// errors (a missing bound) surface; per-relation misses are only counted.
//
// [scene] - An in-memory document used by the CLI, the server and tests.
//
// [render/sink] and [render/nodelink] - Outputs for drawn connectors and for
// the scene topology.
//
// [pipeline] - One settled render of a scene to any set of formats, with
// artifact caching through [cache]. Used by the CLI and the HTTP server.
//
// [config], [errors], [observability] and [buildinfo] - Settings, coded
// errors, hooks and version stamping.
//
// # Quick Start
//
//	s, _ := io.ImportScene("page.json")
//	runner := pipeline.NewRunner(cache.NewNullCache(), log.Default())
//	result, err := runner.Render(ctx, s, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("page.svg", result.Artifacts["svg"], 0o644)
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/geom
// [relation]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/relation
// [refresh]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/refresh
// [overlay]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/overlay
// [scene]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/scene
// [io]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/io
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/relline/pkg/buildinfo
package pkg
