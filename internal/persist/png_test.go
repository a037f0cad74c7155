package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrterm/internal/domain"
	"qrterm/internal/encoder"
)

func render(t *testing.T, size int) *domain.Image {
	t.Helper()
	enc, err := encoder.New(encoder.BackendSkip2)
	require.NoError(t, err)
	img, err := enc.Generate("https://example.com", size, 1)
	require.NoError(t, err)
	return img
}

func TestSavePNG_WritesDecodableFile(t *testing.T) {
	dir := t.TempDir()
	img := render(t, 300)

	path, err := SavePNG(img, filepath.Join(dir, "QRCode_test"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "QRCode_test.png"), path)

	loaded, err := gg.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, 300, loaded.Bounds().Dx())
	assert.Equal(t, 300, loaded.Bounds().Dy())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestSavePNG_CreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := SavePNG(render(t, 200), filepath.Join(dir, "code.png"))
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, Exists(path))
	assert.True(t, Exists(filepath.Join(dir, "code")))
}

func TestSavePNG_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.png")
	_, err := SavePNG(render(t, 200), path)
	require.NoError(t, err)
	_, err = SavePNG(render(t, 400), path)
	require.NoError(t, err)

	loaded, err := gg.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, 400, loaded.Bounds().Dx())
}

func TestSavePNG_NilImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.png")
	_, err := SavePNG(nil, path)
	assert.ErrorIs(t, err, domain.ErrEncoding)
	assert.NoFileExists(t, path)
}

func TestSavePNG_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// a regular file used as a directory cannot be created into
	_, err := SavePNG(render(t, 200), filepath.Join(blocker, "code.png"))
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestEnsureExt(t *testing.T) {
	assert.Equal(t, "a.png", EnsureExt("a"))
	assert.Equal(t, "a.PNG", EnsureExt("a.PNG"))
	assert.Equal(t, "a.txt.png", EnsureExt("a.txt"))
}

func TestSavePNG_FileMode(t *testing.T) {
	dir := t.TempDir()

	fresh, err := SavePNG(render(t, 200), filepath.Join(dir, "fresh.png"))
	require.NoError(t, err)
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	existing := filepath.Join(dir, "existing.png")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))
	_, err = SavePNG(render(t, 200), existing)
	require.NoError(t, err)
	info, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
