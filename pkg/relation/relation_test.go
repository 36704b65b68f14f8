package relation

import (
	"testing"

	"github.com/matzehuels/relline/pkg/errors"
)

func TestNew(t *testing.T) {
	r := New("a", "b", "#ff0000")
	if r.StartID != "a" || r.EndID != "b" || r.Color != "#ff0000" {
		t.Errorf("New() = %+v", r)
	}

	r = New("a", "b")
	if r.Color != "" {
		t.Errorf("Color = %q, want empty", r.Color)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rel     Relation
		wantErr bool
	}{
		{"ok", New("a", "b"), false},
		{"missing start", New("", "b"), true},
		{"missing end", New("a", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rel.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestListValidate(t *testing.T) {
	l := List{New("a", "b"), New("b", "")}
	if err := l.Validate(); err == nil {
		t.Error("Validate() = nil, want error for second relation")
	}
}

func TestListClone(t *testing.T) {
	l := List{New("a", "b", "red")}
	c := l.Clone()
	c[0].Color = "blue"
	if l[0].Color != "red" {
		t.Error("Clone() shares storage with the original")
	}
	if List(nil).Clone() != nil {
		t.Error("Clone() of nil list should be nil")
	}
}

func TestListIDs(t *testing.T) {
	l := List{New("a", "b"), New("b", "c"), New("a", "c")}
	got := l.IDs()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
