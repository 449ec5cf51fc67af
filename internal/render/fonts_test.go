package render

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFont_NoUsablePath(t *testing.T) {
	f := &fileFont{paths: []string{
		"/nonexistent/font-a.ttf",
		"/nonexistent/font-b.ttf",
	}}

	_, err := f.Face(12)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable font")
}

func TestBuiltinFont_AlwaysAvailable(t *testing.T) {
	face, err := builtinFont{}.Face(999)

	require.NoError(t, err)
	assert.NotNil(t, face)
}

func TestFontSet_FallsBackToBuiltin(t *testing.T) {
	fs := &FontSet{
		mono: []FontProvider{
			&fileFont{paths: []string{"/nonexistent/mono.ttf"}},
			builtinFont{},
		},
		bold: []FontProvider{
			&fileFont{paths: []string{"/nonexistent/bold.ttf"}},
			builtinFont{},
		},
		logo: []FontProvider{
			&fileFont{paths: []string{"/nonexistent/logo.ttf"}},
			builtinFont{},
		},
		logger: zerolog.Nop(),
	}

	assert.NotNil(t, fs.Mono(10))
	assert.NotNil(t, fs.Bold(12))
	assert.NotNil(t, fs.Logo(22))
}

func TestNewFontSet_NeverFails(t *testing.T) {
	// Whatever fonts the host has installed, every role must resolve.
	fs := NewFontSet(zerolog.Nop())

	assert.NotNil(t, fs.Mono(10))
	assert.NotNil(t, fs.Bold(12))
	assert.NotNil(t, fs.Logo(22))
}
