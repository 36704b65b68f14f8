package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/scene"
)

// WriteJSON encodes a scene as indented JSON and writes it to w.
// The output can be re-imported with [ReadScene].
func WriteJSON(w io.Writer, s *scene.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes a scene as TOML and writes it to w.
func WriteTOML(w io.Writer, s *scene.Scene) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteScene encodes a scene in the given format.
func WriteScene(w io.Writer, s *scene.Scene, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatTOML:
		return WriteTOML(w, s)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
}

// ExportScene writes a scene to path in the format implied by its extension.
func ExportScene(s *scene.Scene, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteScene(f, s, format)
}
