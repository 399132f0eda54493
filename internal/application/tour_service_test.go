package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Forest Hiker":       "the-forest-hiker",
		"  Leading  spaces ":     "leading-spaces",
		"Tour #3: Sea & Sand!":   "tour-3-sea-sand",
		"UPPER":                  "upper",
		"already-slugged":        "already-slugged",
		"":                       "",
		"---":                    "",
		"Ünïcode Tour":           "n-code-tour",
		"The Snow Adventurer 4d": "the-snow-adventurer-4d",
	}
	for in, want := range cases {
		assert.Equalf(t, want, Slugify(in), "input %q", in)
	}
}
