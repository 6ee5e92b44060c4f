package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kepatuhan/internal/config"
)

func TestValidateYear(t *testing.T) {
	assert.NoError(t, validateYear(" 2024 "))
	assert.Error(t, validateYear("dua ribu"))
	assert.Error(t, validateYear("1999"))
}

func TestApplySetup(t *testing.T) {
	cfg, err := applySetup(config.DefaultConfig(), setupValues{
		Category: "makan_minum",
		Year:     "2023",
		DataFile: " /data/pajak.xlsx ",
		Theme:    "terminal",
	})
	require.NoError(t, err)

	assert.Equal(t, "MAKAN MINUM", cfg.General.Category)
	assert.Equal(t, 2023, cfg.General.Year)
	assert.Equal(t, "/data/pajak.xlsx", cfg.General.DataFile)
	assert.Equal(t, "terminal", cfg.Appearance.Theme)
	assert.NoError(t, cfg.Validate())
}

func TestApplySetupRejectsBadValues(t *testing.T) {
	_, err := applySetup(config.DefaultConfig(), setupValues{Category: "PARKIR", Year: "2024"})
	assert.Error(t, err)

	_, err = applySetup(config.DefaultConfig(), setupValues{Category: "HIBURAN", Year: "24"})
	assert.Error(t, err)
}
