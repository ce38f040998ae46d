package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpContentListsBindings(t *testing.T) {
	r := NewHelpRenderer(DefaultKeyMap)
	plain := ansiRE.ReplaceAllString(r.RenderHelpContentPlain(), "")

	for _, want := range []string{"headlesskit Help", "next slide", "Carousel", "Combobox"} {
		assert.Contains(t, plain, want)
	}
}

func TestHelpContentScrolls(t *testing.T) {
	r := NewHelpRenderer(DefaultKeyMap)
	full := strings.Split(r.RenderHelpContentPlain(), "\n")

	top := ansiRE.ReplaceAllString(r.renderHelpContent(10, 0), "")
	assert.Len(t, strings.Split(top, "\n"), 6)
	assert.Contains(t, top, "more below")
	assert.NotContains(t, top, "more above")

	bottom := ansiRE.ReplaceAllString(r.renderHelpContent(10, len(full)), "")
	assert.Contains(t, bottom, "more above")
	assert.NotContains(t, bottom, "more below")
	assert.Contains(t, bottom, "Drag the slide")
}
