package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_HOST: db.internal\nDB_NAME: foodgram\nJWT_SECRET: from-yaml\nPASSWORD_MIN_LENGTH: 10\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Cleanup(func() { config = defaultConfig() })

	LoadConfigFrom(path)

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "foodgram", GetConfig("DB_NAME"))
	assert.Equal(t, "from-env", GetConfig("JWT_SECRET"))
	assert.Equal(t, 10, GetConfigInt("PASSWORD_MIN_LENGTH", 8))
	assert.Equal(t, "5432", GetConfig("DB_PORT"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestLoadConfigFrom_MissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(func() { config = defaultConfig() })

	LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, 20, GetConfigInt("RATE_LIMIT_MAX", 1))
	assert.Equal(t, 7, GetConfigInt("NOT_A_NUMBER_KEY", 7))
}
