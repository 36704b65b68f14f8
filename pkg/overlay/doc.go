// Package overlay keeps connector quads between pairs of elements in sync
// with a live layout.
//
// # Overview
//
// An [Overlay] owns a list of relations, a bounding element and a
// [refresh.Scheduler]. Layout-changing events (window scroll, window resize,
// scroll of the bounding element, relation or bound changes) request a
// refresh: drawn connectors are cleared at once and a single draw pass runs
// after the settle delay.
//
// A draw pass walks the relations in list order. For each one it resolves
// both elements, re-reads their rectangles and the bound's rectangle, gates
// the pair with [geom.InScope], computes the quad with [geom.Connect] and
// hands the result to the [Renderer]. Unknown ids, empty rectangles,
// out-of-scope pairs and non-renderable quads are skipped silently; they are
// re-evaluated on the next refresh.
//
// # Collaborators
//
// The overlay does not know what an element is. It consumes:
//
//   - [Document]: resolves element ids to [Element] handles
//   - [Events]: registers scroll and resize handlers and returns an
//     unsubscribe function for each
//   - [Renderer]: materializes and clears connectors
//
// [scene.Scene] implements Document and Events for the CLI and tests; the
// sink package provides renderers.
//
// # Lifecycle
//
//	o := overlay.New(doc, events, renderer, overlay.WithDelay(30*time.Millisecond))
//	o.SetBoundID("frame")
//	o.SetRelations(relation.List{relation.New("a", "b", "#ff0000")})
//	if err := o.Init(); err != nil {
//	    return err // bounding element missing
//	}
//	defer o.Close()
//
// Close cancels a pending redraw and unregisters every listener before it
// returns.
//
// [scene.Scene]: github.com/matzehuels/relline/pkg/scene.Scene
package overlay
