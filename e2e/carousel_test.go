//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCarouselNavigation(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("Welcome to headlesskit"), "Should show the first slide")
	require.True(t, tf.SeePlain("1 / 5"), "Should show the slide counter")

	tf.Next()
	require.True(t, tf.SeePlain("Carousel state lives outside the view"), "Should advance to slide 2")
	require.True(t, tf.SeePlain("2 / 5"))

	tf.Prev()
	tf.Prev()
	require.True(t, tf.SeePlain("No more slides"), "Prev at the first slide should be rejected")
}

func TestCarouselLoopFlag(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("--loop"), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.Prev()
	require.True(t, tf.SeePlain("5 / 5"), "Prev should wrap to the last slide")
}

func TestCarouselAutoplay(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("--interval", "500"), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.ToggleAutoplay()
	require.True(t, tf.SeePlain("playing"), "Should show the playing state")
	require.True(t, tf.SeePlain("aria-live=off"), "Live region should be off while playing")
	require.True(t, tf.SeePlain("3 / 5"), "Autoplay should advance the carousel")

	tf.ToggleAutoplay()
	require.True(t, tf.SeePlain("Autoplay off"), "Should report autoplay stopped")
}
