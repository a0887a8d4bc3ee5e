package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Import.BufferDays)
	assert.False(t, cfg.Import.FuzzyEnabled)
	assert.Equal(t, 0.9, cfg.Import.FuzzyThreshold)
	assert.Equal(t, 0.7, cfg.Import.ReviewThreshold)
	assert.Equal(t, float64(1_000_000), cfg.Import.MaxAmount)
	assert.Equal(t, "qpdf", cfg.Tools.QPDFPath)
	assert.Equal(t, "tesseract", cfg.Tools.TesseractPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMPORT_BUFFER_DAYS", "5")
	t.Setenv("IMPORT_FUZZY_ENABLED", "true")
	t.Setenv("IMPORT_FUZZY_THRESHOLD", "0.8")
	t.Setenv("QPDF_PATH", "/opt/qpdf/bin/qpdf")
	t.Setenv("DATABASE_URL", "postgres://localhost/finance")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Import.BufferDays)
	assert.True(t, cfg.Import.FuzzyEnabled)
	assert.Equal(t, 0.8, cfg.Import.FuzzyThreshold)
	assert.Equal(t, "/opt/qpdf/bin/qpdf", cfg.Tools.QPDFPath)
	assert.Equal(t, "postgres://localhost/finance", cfg.Database.URL)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("IMPORT_BUFFER_DAYS", "not a number")
	t.Setenv("IMPORT_FUZZY_THRESHOLD", "high")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Import.BufferDays)
	assert.Equal(t, 0.9, cfg.Import.FuzzyThreshold)
}
