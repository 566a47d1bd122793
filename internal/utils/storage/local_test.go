package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "http://localhost:8080/media/")
	require.NoError(t, err)

	key, err := s.UploadFile(context.Background(), "recipes/images/abc.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "recipes/images/abc.png", key)

	data, err := os.ReadFile(filepath.Join(root, "recipes", "images", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	link := s.GetPublicLinkKey(key)
	assert.Equal(t, "http://localhost:8080/media/recipes/images/abc.png", link)
	assert.Equal(t, key, s.GetObjectKeyFromLink(link))
	assert.Empty(t, s.GetObjectKeyFromLink("https://elsewhere.example/recipes/images/abc.png"))

	require.NoError(t, s.DeleteFile(context.Background(), key))
	_, err = os.Stat(filepath.Join(root, "recipes", "images", "abc.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, s.DeleteFile(context.Background(), key))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	_, err = s.UploadFile(context.Background(), "../outside.png", []byte("x"), "image/png")
	assert.Error(t, err)
}
