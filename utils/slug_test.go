package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":         "hello-world",
		"Why Go?":               "why-go",
		"a_b c.d/e":             "a-b-c-d-e",
		"  leading and trailing  ": "leading-and-trailing",
		"Multiple   Spaces":     "multiple-spaces",
		"Release 1.21":          "release-1-21",
		"":                      "",
		"!!!":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input=%q", in)
	}
}

func TestSlugifyDropsNonASCII(t *testing.T) {
	assert.Equal(t, "caf-au-lait", Slugify("Café au lait"))
}
