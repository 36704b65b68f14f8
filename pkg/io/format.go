package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/relline/pkg/errors"
)

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTOML:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q (use json or toml)", s)
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer scene format of %s (use .json or .toml)", path)
	}
	return ParseFormat(ext)
}
