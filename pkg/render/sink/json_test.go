package sink

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
)

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame(), []overlay.Connector{testConnector("red")})
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out Export
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 200 || out.Height != 100 {
		t.Errorf("size = %vx%v, want 200x100", out.Width, out.Height)
	}
	if out.Bound != "bound" {
		t.Errorf("Bound = %q, want bound", out.Bound)
	}
	if len(out.Connectors) != 1 {
		t.Fatalf("Connectors count = %d, want 1", len(out.Connectors))
	}

	c := out.Connectors[0]
	if c.Start != "s" || c.End != "e" || c.Fill != "red" {
		t.Errorf("connector = %+v", c)
	}
	if c.Points[1] != geom.Pt(100, 40) {
		t.Errorf("B = %v, want (100,40)", c.Points[1])
	}
	if want := (geom.HostBox{Left: 50, Top: 20, Width: 50, Height: 50}); c.Host != want {
		t.Errorf("Host = %+v, want %+v", c.Host, want)
	}
	if c.Local[3] != geom.Pt(0, 30) {
		t.Errorf("D' = %v, want (0,30)", c.Local[3])
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(Frame{Width: 1, Height: 1}, nil)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if conns, ok := out["connectors"].([]any); !ok || len(conns) != 0 {
		t.Errorf("connectors = %v, want empty list", out["connectors"])
	}
}
