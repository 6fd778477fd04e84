package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, "ascii.json", `{
		"max_size": 40,
		"palette": "@. ",
		"thresholds": [60, 190],
		"interpolation": "area",
		"line_ending": "crlf"
	}`)

	f, err := Load(path)
	require.NoError(t, err)

	opts, err := f.Options()
	require.NoError(t, err)
	c, err := img2ascii.NewConverter(opts...)
	require.NoError(t, err)

	assert.Equal(t, 40, c.MaxSize())
	assert.Equal(t, img2ascii.Palette{Dark: '@', Mid: '.', Light: ' '}, c.Palette())
	assert.Equal(t, img2ascii.Thresholds{Low: 60, High: 190}, c.Thresholds())
	assert.Equal(t, imageutil.InterpolationArea, c.Interpolation())
	assert.Equal(t, "\r\n", c.LineEnding())
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "partial.json", `{"max_size": 100}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, f.Palette)
	assert.Nil(t, f.Thresholds)

	opts, err := f.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	c, err := img2ascii.NewConverter(opts...)
	require.NoError(t, err)
	assert.Equal(t, 100, c.MaxSize())
	assert.Equal(t, img2ascii.DefaultPalette(), c.Palette())
	assert.Equal(t, img2ascii.DefaultThresholds(), c.Thresholds())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "config.yaml", `{}`, ".json extension"},
		{"unknown field", "c.json", `{"width": 80}`, "unknown field"},
		{"malformed", "c.json", `{"max_size": }`, "failed to parse"},
		{"three thresholds", "c.json", `{"thresholds": [10, 20, 30]}`, "two values"},
		{"one threshold", "c.json", `{"thresholds": [10]}`, "two values"},
		{"empty thresholds", "c.json", `{"thresholds": []}`, "two values"},
		{"trailing object", "c.json", `{"max_size": 40} {"garbage": 1}`, "trailing data"},
		{"trailing bracket", "c.json", `{"max_size": 40}]`, "trailing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to stat")

	big := writeConfig(t, "big.json", `{"palette": "`+strings.Repeat("x", maxFileSize)+`"}`)
	_, err = Load(big)
	assert.ErrorContains(t, err, "too large")
}

func TestLoadAllowsTrailingWhitespace(t *testing.T) {
	f, err := Load(writeConfig(t, "c.json", "{\"thresholds\": [10, 20]}\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, f.Thresholds)
}

func TestOptionsRejectInvalidValues(t *testing.T) {
	for _, body := range []string{
		`{"palette": "#+"}`,
		`{"interpolation": "lanczos"}`,
		`{"line_ending": "cr"}`,
	} {
		f, err := Load(writeConfig(t, "c.json", body))
		require.NoError(t, err)
		_, err = f.Options()
		assert.Error(t, err, body)
	}

	// A File built in code skips Load, so Options checks the count too.
	_, err := (&File{Thresholds: []int{1, 2, 3}}).Options()
	assert.ErrorContains(t, err, "two values")

	// Range checks happen when the converter is built.
	f, err := Load(writeConfig(t, "c.json", `{"thresholds": [200, 100]}`))
	require.NoError(t, err)
	opts, err := f.Options()
	require.NoError(t, err)
	_, err = img2ascii.NewConverter(opts...)
	assert.ErrorIs(t, err, img2ascii.ErrInvalidConfig)
}

func TestParseLineEnding(t *testing.T) {
	lf, err := ParseLineEnding("lf")
	require.NoError(t, err)
	assert.Equal(t, "\n", lf)

	crlf, err := ParseLineEnding("crlf")
	require.NoError(t, err)
	assert.Equal(t, "\r\n", crlf)

	native, err := ParseLineEnding("native")
	require.NoError(t, err)
	assert.Equal(t, img2ascii.DefaultLineEnding(), native)
}
