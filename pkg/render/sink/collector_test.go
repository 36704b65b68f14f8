package sink

import "testing"

func TestCollector(t *testing.T) {
	changes := 0
	c := NewCollector(func() { changes++ })

	c.Draw(testConnector("red"))
	c.Draw(testConnector("blue"))
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	got := c.Connectors()
	if got[0].Fill != "red" || got[1].Fill != "blue" {
		t.Errorf("Connectors() fills = %q, %q, want red, blue", got[0].Fill, got[1].Fill)
	}

	got[0].Fill = "green"
	if c.Connectors()[0].Fill != "red" {
		t.Error("Connectors() should return a copy")
	}

	c.ClearAll()
	if c.Len() != 0 {
		t.Errorf("Len() after ClearAll = %d, want 0", c.Len())
	}
	if changes != 3 {
		t.Errorf("onChange called %d times, want 3", changes)
	}
}

func TestCollectorWithoutCallback(t *testing.T) {
	c := NewCollector()
	c.Draw(testConnector("red"))
	c.ClearAll()
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}
