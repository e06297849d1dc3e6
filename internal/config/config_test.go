package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp は .env ファイルが拾われないよう空のディレクトリへ移動します。
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("GIN_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "debug", cfg.GinMode)
}

func TestLoadMissingSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadFromDotEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	// t.Setenv で登録しておくと godotenv が設定した値もテスト終了時に戻る
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("PORT")

	require.NoError(t, os.WriteFile(".env", []byte("JWT_SECRET=from-file\nPORT=4000\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "4000", cfg.Port)
}

func TestValidateReleaseRequiresSessionSecret(t *testing.T) {
	cfg := &Config{
		JWTSecret: "secret",
		TokenTTL:  time.Hour,
		Port:      "3000",
		GinMode:   "release",
	}
	require.Error(t, cfg.Validate())

	cfg.SessionSecret = "cookie-secret"
	require.NoError(t, cfg.Validate())
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	assert.Equal(t, 10, getEnvAsInt("BCRYPT_COST", 10))
}
