package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("EXPORT_PACING", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "Asia/Seoul", cfg.Reporting.Timezone)
	assert.Equal(t, 300*time.Millisecond, cfg.Export.Pacing)
	assert.Equal(t, "송품장", cfg.DeliveryNote.FileLabel)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EXPORT_PACING", "0s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Zero(t, cfg.Export.Pacing)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Sheets.Enabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("pacing", func(t *testing.T) {
		t.Setenv("EXPORT_PACING", "soon")
		_, err := Load("testdata/missing.env")
		assert.Error(t, err)
	})

	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "redis")
		_, err := Load("testdata/missing.env")
		assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")
	})

	t.Run("mongo without uri", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongodb")
		t.Setenv("MONGODB_URI", "")
		_, err := Load("testdata/missing.env")
		assert.ErrorContains(t, err, "MONGODB_URI")
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load("testdata/missing.env")
		assert.Error(t, err)
	})
}
