//go:build e2e && unix

package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigFileIsRead(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	_, err = tf.WriteFile(".headlesskit.toml", `version = 1

[carousel]
slides = ["Alpha slide", "Beta slide"]
start_index = 1
`)
	require.NoError(t, err)

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("Beta slide"), "Should start on the configured slide")
	require.True(t, tf.SeePlain("2 / 2"))
}

func TestInvalidConfigFailsFast(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	_, err = tf.WriteFile(".headlesskit.toml", "[carousel]\nslides_per_view = 0\n")
	require.NoError(t, err)

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.SeePlain("Error loading config"), "Should report the invalid config")

	done := make(chan error, 1)
	go func() { done <- tf.cmd.Wait() }()
	select {
	case exitErr := <-done:
		require.Error(t, exitErr, "Should exit with a failure status")
	case <-time.After(2 * time.Second):
		t.Fatal("app did not exit on invalid config")
	}
}

func TestOptionsFileIsWatched(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	path, err := tf.WriteFile("options.yaml", "- Oak\n- Pine\n")
	require.NoError(t, err)

	require.NoError(t, tf.StartApp("--options", "options.yaml"), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.Tab()
	tf.Down()
	require.True(t, tf.SeePlain("> Oak"), "Should list options from the file")

	require.NoError(t, os.WriteFile(path, []byte("- Oak\n- Pine\n- Birch\n"), 0644))
	require.True(t, tf.OutputContainsPlain("Reloaded 3 options", 5*time.Second), "Should reload the edited file")
	require.True(t, tf.SeePlain("Birch"))
}
