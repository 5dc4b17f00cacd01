package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sanbot-mcu-bridge", cfg.App.Name)
	assert.Equal(t, 0x0483, cfg.USB.VendorID)
	assert.Equal(t, 0x5741, cfg.USB.HeadProductID)
	assert.Equal(t, 0x5740, cfg.USB.BottomProductID)
	assert.Equal(t, 0x01, cfg.Bridge.AckFlag)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yaml")
	body := []byte(`
usb:
  headProductId: 0x1234
  writeRate: 50
logging:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0x1234, cfg.USB.HeadProductID)
	assert.Equal(t, 0x5740, cfg.USB.BottomProductID, "unset keys keep defaults")
	assert.Equal(t, float64(50), cfg.USB.WriteRate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("usb:\n  vendorId: 70000\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
