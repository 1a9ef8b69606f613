package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/glide"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { glide.SetLogger(nil) })

	root, _ := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReplay(t *testing.T) {
	out, err := execute(t, "replay", "testdata/drag.toml")
	require.NoError(t, err)

	assert.Contains(t, out, "   1 move         t=16     offset=60.00\n")
	assert.Contains(t, out, "final offset=60.00 range=[0.00, 600.00]\n")
}

func TestReplaySettle(t *testing.T) {
	out, err := execute(t, "replay", "--settle", "testdata/fling.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "final offset=600.00")

	out, err = execute(t, "replay", "testdata/fling.toml")
	require.NoError(t, err)
	assert.NotContains(t, out, "final offset=600.00", "without --settle the fling is still in flight")

	_, err = execute(t, "replay", "--settle", "--frame-ms", "0", "testdata/fling.toml")
	assert.ErrorContains(t, err, "frame-ms must be positive")
}

func TestReplayMissingTrace(t *testing.T) {
	_, err := execute(t, "replay", "testdata/nope.toml")
	assert.ErrorContains(t, err, "failed to read trace")
}

func TestPlay(t *testing.T) {
	out, err := execute(t, "play", "--timeout", "10s", "testdata/fling.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "frame t=")
	assert.Contains(t, out, "final offset=600.00\n")
}

func TestConfigDefaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	cfg, err := glide.ParseConfig([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, glide.DefaultConfig(), cfg)
}

func TestConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glide.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scroll]\nfriction = 1.5\ntouch_slop = 8.0\n"), 0o644))
	t.Setenv("GLIDE_SCROLL_TOUCH_SLOP", "25")

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Regexp(t, `touch_slop = 25(\.0)?\n`, out)
	assert.Regexp(t, `friction = 1\.5\n`, out)
}

func TestConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glide.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scroll]\ndeceleration = -1.0\n"), 0o644))

	_, err := execute(t, "config", "-c", path)
	assert.ErrorContains(t, err, "deceleration must be positive")

	_, err = execute(t, "config", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}
