package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relline/pkg/cache"
	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/relation"
	"github.com/matzehuels/relline/pkg/render/sink"
	"github.com/matzehuels/relline/pkg/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		Width:   400,
		Height:  300,
		BoundID: "frame",
		Elements: []scene.Element{
			{ID: "frame", Width: 400, Height: 300, Fixed: true},
			{ID: "a", X: 20, Y: 40, Width: 80, Height: 40},
			{ID: "b", X: 200, Y: 60, Width: 80, Height: 60},
			{ID: "c", X: 300, Y: 280, Width: 80, Height: 60},
		},
		Relations: relation.List{
			relation.New("a", "b", "#ff0000"),
			relation.New("a", "c"),       // c leaves the bound at the bottom
			relation.New("a", "missing"), // never mounted
		},
	}
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, log.New(&bytes.Buffer{}))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg, JSON,dot", []string{"svg", "json", "dot"}},
		{"trailing comma", "svg,", []string{"svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid all", []string{"svg", "png", "json", "dot", "nodelink"}, false},
		{"empty slice", []string{}, false},
		{"pdf unsupported", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Labels: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"svg"}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if !opts.Elements {
		t.Error("Labels should imply Elements")
	}
	if opts.StrokeColor != overlay.DefaultStroke || opts.DefaultColor != overlay.DefaultFill {
		t.Errorf("colors = %q, %q", opts.StrokeColor, opts.DefaultColor)
	}

	bad := Options{Scale: -1}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative scale should fail")
	}
}

func TestRender(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Render(context.Background(), testScene(), Options{Formats: []string{"svg", "json", "png", "dot"}})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, f := range []string{"svg", "json", "png", "dot"} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if res.Stats.Drawn != 1 || res.Stats.Skipped != 2 {
		t.Errorf("Stats = %v, want 1 drawn, 2 skipped", res.Stats)
	}
	if res.Stats.Reasons[overlay.SkipOutOfScope] != 1 || res.Stats.Reasons[overlay.SkipMissingElement] != 1 {
		t.Errorf("Reasons = %v", res.Stats.Reasons)
	}

	var out sink.Export
	if err := json.Unmarshal(res.Artifacts["json"], &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if len(out.Connectors) != 1 || out.Connectors[0].Fill != "#ff0000" {
		t.Errorf("connectors = %+v", out.Connectors)
	}
	if !strings.Contains(string(res.Artifacts["dot"]), `"a" -> "c" [color="#000000"];`) {
		t.Errorf("DOT should color relations without a color with the default fill:\n%s", res.Artifacts["dot"])
	}
}

func TestRenderScrollOverride(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Render(context.Background(), testScene(), Options{
		Formats: []string{"json"},
		Scroll:  &geom.Point{X: 0, Y: 30},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var out sink.Export
	if err := json.Unmarshal(res.Artifacts["json"], &out); err != nil {
		t.Fatal(err)
	}
	// a moved from y=40 to y=10; a->c is still out of scope.
	if len(out.Connectors) != 1 {
		t.Fatalf("connectors = %d, want 1", len(out.Connectors))
	}
	if got := out.Connectors[0].Points[0]; got != geom.Pt(100, 10) {
		t.Errorf("A = %v, want (100,10)", got)
	}
}

func TestRenderBoundNotFound(t *testing.T) {
	s := testScene()
	s.BoundID = "nowhere"

	_, err := quietRunner(nil).Render(context.Background(), s, Options{})
	if !errors.Is(err, errors.ErrCodeBoundNotFound) {
		t.Errorf("Render() error = %v, want BOUND_NOT_FOUND", err)
	}
}

func TestRenderInvalid(t *testing.T) {
	r := quietRunner(nil)
	if _, err := r.Render(context.Background(), testScene(), Options{Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v, want INVALID_FORMAT", err)
	}

	s := testScene()
	s.Width = 0
	if _, err := r.Render(context.Background(), s, Options{}); !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("bad scene error = %v, want INVALID_SCENE", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := quietRunner(nil).Render(ctx, testScene(), Options{}); err != context.Canceled {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRenderCache(t *testing.T) {
	c := cache.NewMemoryCache(16)
	r := quietRunner(c)
	ctx := context.Background()
	opts := Options{Formats: []string{"svg", "json"}}

	first, err := r.Render(ctx, testScene(), opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(first.Cached) != 0 {
		t.Errorf("first render Cached = %v, want none", first.Cached)
	}

	second, err := r.Render(ctx, testScene(), opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !reflect.DeepEqual(second.Cached, []string{"svg", "json"}) {
		t.Errorf("second render Cached = %v, want [svg json]", second.Cached)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered one")
	}
	if second.Stats.Drawn != 0 {
		t.Error("no draw pass should run when every format is cached")
	}

	refreshed, err := r.Render(ctx, testScene(), Options{Formats: []string{"svg"}, Refresh: true})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(refreshed.Cached) != 0 || refreshed.Stats.Drawn != 1 {
		t.Errorf("refresh render Cached = %v, Drawn = %d", refreshed.Cached, refreshed.Stats.Drawn)
	}

	changed := testScene()
	changed.Relations[0].Color = "#00ff00"
	other, err := r.Render(ctx, changed, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(other.Cached) != 0 {
		t.Error("a changed scene should not hit the cache")
	}
}

func TestExtensionAndContentType(t *testing.T) {
	if Extension(FormatNodelink) != "nodelink.svg" || Extension(FormatPNG) != "png" {
		t.Error("unexpected extensions")
	}
	if ContentType(FormatPNG) != "image/png" || ContentType(FormatSVG) != "image/svg+xml" {
		t.Error("unexpected content types")
	}
}
