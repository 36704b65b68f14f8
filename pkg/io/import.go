package io

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/scene"
)

// ReadScene decodes a scene from r and validates it.
//
// Unknown keys are rejected so misspelled fields do not silently fall back
// to zero values. Decode and validation failures are INVALID_SCENE errors;
// an unknown format is INVALID_FORMAT. ReadScene does not close r.
func ReadScene(r io.Reader, format Format) (*scene.Scene, error) {
	var s scene.Scene
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ImportScene reads the scene file at path. The format follows the file
// extension (.json or .toml). A missing file is a FILE_NOT_FOUND error.
func ImportScene(path string) (*scene.Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	return ReadScene(f, format)
}
