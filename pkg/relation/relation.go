// Package relation describes requested connections between two elements.
package relation

import (
	"fmt"

	"github.com/matzehuels/relline/pkg/errors"
)

// Relation asks for a connector from the element StartID to the element
// EndID. It is an immutable value; an empty Color selects the renderer's
// default fill.
type Relation struct {
	StartID string `json:"start" toml:"start"`
	EndID   string `json:"end" toml:"end"`
	Color   string `json:"color,omitempty" toml:"color"`
}

// New returns a Relation between start and end. An optional color may be
// given; extra arguments are ignored.
func New(start, end string, color ...string) Relation {
	r := Relation{StartID: start, EndID: end}
	if len(color) > 0 {
		r.Color = color[0]
	}
	return r
}

// Validate reports an INVALID_INPUT error if either id is empty.
func (r Relation) Validate() error {
	if r.StartID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "relation %s: missing start id", r)
	}
	if r.EndID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "relation %s: missing end id", r)
	}
	return nil
}

// Key identifies the relation by its endpoints.
func (r Relation) Key() string { return r.StartID + "->" + r.EndID }

func (r Relation) String() string {
	if r.Color == "" {
		return fmt.Sprintf("%q->%q", r.StartID, r.EndID)
	}
	return fmt.Sprintf("%q->%q (%s)", r.StartID, r.EndID, r.Color)
}

// List is an ordered set of relations. Draw order follows list order.
type List []Relation

// Clone returns a copy of l that does not share storage with it.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Validate validates every relation and returns the first failure.
func (l List) Validate() error {
	for i, r := range l {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "relation %d", i)
		}
	}
	return nil
}

// IDs returns every element id referenced by l, in first-seen order.
func (l List) IDs() []string {
	seen := make(map[string]struct{}, len(l)*2)
	var ids []string
	for _, r := range l {
		for _, id := range [2]string{r.StartID, r.EndID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
