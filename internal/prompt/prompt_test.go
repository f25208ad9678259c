package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCanonicalIgnoresCase(t *testing.T) {
	for _, key := range CanonicalKeys() {
		want := canonical[key]
		variants := []string{key, strings.ToUpper(key), strings.ToUpper(key[:1]) + key[1:]}

		for _, v := range variants {
			assert.Equal(t, want, Derive(v), "asset type %q", v)
			assert.True(t, Canonical(v))
		}
	}
}

func TestDeriveKnownPrompts(t *testing.T) {
	assert.Equal(t, "A simple, clean checkmark icon in a minimalist style", Derive("Checkmark"))
	assert.Equal(t, "A minimalist warning triangle icon with exclamation mark", Derive("WARNING"))
	assert.Equal(t, "A minimalist error or close icon with X mark", Derive("error"))
}

func TestDeriveFallbackKeepsCasing(t *testing.T) {
	tests := map[string]string{
		"Hourglass":     "A simple, minimalist Hourglass icon in a clean style",
		"locked":        "A simple, minimalist locked icon in a clean style",
		"Stop Sign":     "A simple, minimalist Stop Sign icon in a clean style",
		"info":          "A simple, minimalist info icon in a clean style",
		"checkmark-alt": "A simple, minimalist checkmark-alt icon in a clean style",
	}

	for in, want := range tests {
		assert.Equal(t, want, Derive(in))
		assert.False(t, Canonical(in))
	}
}

func TestCanonicalKeys(t *testing.T) {
	assert.Equal(t, []string{"checkmark", "error", "information", "success", "warning"}, CanonicalKeys())
}

func TestCatalogIsACopy(t *testing.T) {
	first := Catalog()
	require.NotEmpty(t, first)
	first[0].Name = "changed"

	assert.Equal(t, "Checkmark", Catalog()[0].Name)
}
