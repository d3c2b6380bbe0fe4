package vision

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestImageLocator_DirPriority(t *testing.T) {
	locator := ImageLocator{
		ImageDirs:      map[string]string{"mapped": "/data/sim1"},
		SourcePath:     "/data/sim2/doc.json",
		ImageDirectory: "/data/images",
	}
	assert.Equal(t, "/data/sim1", locator.Dir("mapped"))
	assert.Equal(t, "/data/sim2", locator.Dir("other"))

	locator.SourcePath = ""
	assert.Equal(t, "/data/images", locator.Dir("other"))

	locator.ImageDirectory = ""
	assert.Equal(t, ".", locator.Dir("other"))
}

func TestImageLocator_ProbeOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "shot.jpg"))
	touch(t, filepath.Join(dir, "shot.JPG"))
	touch(t, filepath.Join(dir, "shot.png"))

	locator := ImageLocator{ImageDirectory: dir}
	for run := 0; run < 3; run++ {
		got, err := locator.Resolve("shot")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "shot.JPG"), got)
	}
}

func TestImageLocator_AsIsWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "shot.png"))
	touch(t, filepath.Join(dir, "shot.png.JPG"))

	got, err := ImageLocator{ImageDirectory: dir}.Resolve("shot.png")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shot.png"), got)
}

func TestImageLocator_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "shot"), 0o755))
	touch(t, filepath.Join(dir, "shot.jpeg"))

	got, err := ImageLocator{ImageDirectory: dir}.Resolve("shot")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shot.jpeg"), got)
}

func TestImageLocator_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := ImageLocator{ImageDirectory: dir}.Resolve("missing")

	require.Error(t, err)
	var notFound *ImageNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.FileID)
	assert.Equal(t, dir, notFound.Dir)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{
		filepath.Join("d", "x"),
		filepath.Join("d", "x.JPG"),
		filepath.Join("d", "x.jpg"),
		filepath.Join("d", "x.PNG"),
		filepath.Join("d", "x.png"),
		filepath.Join("d", "x.JPEG"),
		filepath.Join("d", "x.jpeg"),
	}, Candidates("d", "x"))
}
