package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "travel-cms/pkg/errors"
)

func TestLocalFileStorage_SaveDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalFileStorage(dir)
	require.NoError(t, err)

	name, err := storage.Save(strings.NewReader("payload"), "../../etc/Photo.JPG", "gallery")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "gallery/"+time.Now().Format("2006/01/02")+"/"), name)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)
	assert.NotContains(t, name, "Photo")
	assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(name)))

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	require.NoError(t, storage.Delete(name))
	assert.NoFileExists(t, filepath.Join(dir, filepath.FromSlash(name)))

	err = storage.Delete(name)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestLocalFileStorage_UniqueNames(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	first, err := storage.Save(strings.NewReader("a"), "same.png", "p")
	require.NoError(t, err)
	second, err := storage.Save(strings.NewReader("b"), "same.png", "p")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLocalFileStorage_RejectsEscapingNames(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalFileStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	outside := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	for _, name := range []string{"", "../secret.txt", "/etc/passwd"} {
		err := storage.Delete(name)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStoredName, name)
		var ioErr *apperrors.IOError
		assert.ErrorAs(t, err, &ioErr)
	}
	assert.FileExists(t, outside)
}

func TestSafeExt(t *testing.T) {
	cases := map[string]string{
		"photo.PNG":        ".png",
		"archive.tar.gz":   ".gz",
		"noext":            "",
		"weird.p-g":        "",
		"dot.":             "",
		"long.abcdefghijk": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeExt(in), in)
	}
}
