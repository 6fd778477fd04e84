// Package config loads converter settings from a JSON file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

// maxFileSize bounds the config file; real configs are a few hundred bytes.
const maxFileSize = 1 * 1024 * 1024

// File is the on-disk configuration. Every field is optional; fields left
// out of the JSON keep the converter defaults.
type File struct {
	MaxSize       *int    `json:"max_size,omitempty"`
	Palette       *string `json:"palette,omitempty"`    // three glyphs, dark to light
	Thresholds    []int   `json:"thresholds,omitempty"` // [low, high]
	Interpolation *string `json:"interpolation,omitempty"`
	LineEnding    *string `json:"line_ending,omitempty"` // "lf", "crlf" or "native"
}

// Load reads a File from a JSON file. The path must have a .json extension,
// the file must hold a single JSON object, and unknown keys are rejected.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: trailing data after JSON object", cleanPath)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", cleanPath, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Thresholds != nil && len(f.Thresholds) != 2 {
		return fmt.Errorf("thresholds want two values, got %d", len(f.Thresholds))
	}
	return nil
}

// Options converts the fields that are set into converter options.
func (f *File) Options() ([]img2ascii.Option, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	var opts []img2ascii.Option
	if f.MaxSize != nil {
		opts = append(opts, img2ascii.WithMaxSize(*f.MaxSize))
	}
	if f.Palette != nil {
		p, err := img2ascii.ParsePalette(*f.Palette)
		if err != nil {
			return nil, err
		}
		opts = append(opts, img2ascii.WithPalette(p))
	}
	if f.Thresholds != nil {
		opts = append(opts, img2ascii.WithThresholds(img2ascii.Thresholds{
			Low:  f.Thresholds[0],
			High: f.Thresholds[1],
		}))
	}
	if f.Interpolation != nil {
		interp, err := imageutil.ParseInterpolation(*f.Interpolation)
		if err != nil {
			return nil, err
		}
		opts = append(opts, img2ascii.WithInterpolation(interp))
	}
	if f.LineEnding != nil {
		le, err := ParseLineEnding(*f.LineEnding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, img2ascii.WithLineEnding(le))
	}
	return opts, nil
}

// ParseLineEnding maps "lf", "crlf" or "native" to a line terminator.
func ParseLineEnding(name string) (string, error) {
	switch name {
	case "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	case "native", "":
		return img2ascii.DefaultLineEnding(), nil
	}
	return "", fmt.Errorf("unknown line ending %q (want lf, crlf or native)", name)
}
