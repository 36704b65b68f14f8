// Package io reads and writes scene files.
//
// # Overview
//
// A scene file describes a viewport, the elements on the page and the
// relations to connect. The same structure is accepted as JSON or TOML; the
// file extension picks the decoder.
//
// # JSON Format
//
//	{
//	  "width": 800,
//	  "height": 600,
//	  "bound": "frame",
//	  "elements": [
//	    {"id": "frame", "x": 0, "y": 0, "width": 800, "height": 600, "fixed": true},
//	    {"id": "a", "label": "Orders", "x": 40, "y": 80, "width": 160, "height": 60},
//	    {"id": "b", "x": 480, "y": 120, "width": 160, "height": 90}
//	  ],
//	  "relations": [
//	    {"start": "a", "end": "b", "color": "#4dabf7"}
//	  ]
//	}
//
// # TOML Format
//
//	width = 800
//	height = 600
//	bound = "frame"
//
//	[[elements]]
//	id = "frame"
//	width = 800
//	height = 600
//	fixed = true
//
//	[[relations]]
//	start = "a"
//	end = "b"
//
// # Fields
//
// Element positions are document coordinates; non-fixed elements move with
// scroll_x and scroll_y. A relation's color is optional and defaults to the
// overlay's default fill.
//
// # Validation
//
// [ReadScene] and [ImportScene] reject unknown keys, duplicate or malformed
// element ids, empty relation ids and a missing bound id. Relations may
// name elements that are not in the file; the overlay skips them.
//
// # Export
//
// [WriteJSON] and [WriteTOML] produce files that [ReadScene] reads back
// unchanged.
package io
