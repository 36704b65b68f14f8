package sink

import (
	"encoding/json"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
)

// ConnectorJSON is the exported form of one drawn connector.
type ConnectorJSON struct {
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Fill   string        `json:"fill"`
	Stroke string        `json:"stroke"`
	Points [4]geom.Point `json:"points"`
	Host   geom.HostBox  `json:"host"`
	Local  [4]geom.Point `json:"local"`
}

// Export is the document written by RenderJSON.
type Export struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Bound      string          `json:"bound,omitempty"`
	Connectors []ConnectorJSON `json:"connectors"`
}

// RenderJSON exports the connectors with their absolute corners (A, B, C, D),
// host box and local points.
func RenderJSON(f Frame, connectors []overlay.Connector) ([]byte, error) {
	out := Export{
		Width:      f.Width,
		Height:     f.Height,
		Bound:      f.BoundID,
		Connectors: make([]ConnectorJSON, len(connectors)),
	}
	for i, c := range connectors {
		out.Connectors[i] = ConnectorJSON{
			Start:  c.Relation.StartID,
			End:    c.Relation.EndID,
			Fill:   c.Fill,
			Stroke: c.Stroke,
			Points: c.Quad.Points(),
			Host:   c.Quad.Host,
			Local:  c.Quad.Local,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
