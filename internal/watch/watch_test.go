package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.points")
	require.NoError(t, os.WriteFile(path, []byte("1;2;3"), 0o644))

	w := New(path, time.Hour)
	assert.False(t, w.Check(), "baseline is not a change")

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.True(t, w.Check())
	assert.False(t, w.Check(), "change becomes the baseline")

	require.NoError(t, os.WriteFile(path, []byte("1;2;3\n4;5;6"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))
	assert.True(t, w.Check(), "size change with same mtime")
}

func TestCheckMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.points")
	w := New(path, time.Hour)
	assert.False(t, w.Check())

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, w.Check(), "appearing file is a change")

	require.NoError(t, os.Remove(path))
	assert.False(t, w.Check())
}

func TestResetBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.points")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	w := New(path, time.Hour)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w.ResetBaseline()
	assert.False(t, w.Check())
}

func TestStartInvokesCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.points")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w := New(path, 5*time.Millisecond)
	var calls atomic.Int32
	w.OnChange(func() { calls.Add(1) })
	w.Start()
	w.Start()
	defer w.Stop()

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStartSeesRenamedReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.points")
	require.NoError(t, os.WriteFile(path, []byte("1;2;3"), 0o644))

	// A long interval leaves directory events as the only trigger.
	w := New(path, time.Hour)
	var calls atomic.Int32
	w.OnChange(func() { calls.Add(1) })
	w.Start()
	defer w.Stop()

	tmp := filepath.Join(dir, ".pts.points.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("1;2;3\n4;5;6"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "x"), time.Millisecond)
	w.Stop()
	w.Start()
	w.Stop()
	w.Stop()
}
