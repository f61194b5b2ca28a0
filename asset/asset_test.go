package asset

import (
	"bytes"
	"image"
	_ "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetManager(t *testing.T) {
	am := NewManager()

	t.Run("GetIcon", func(t *testing.T) {
		icon, err := am.GetIcon("tray.png")
		require.NoError(t, err)
		assert.Equal(t, "tray.png", icon.Name())

		cfg, format, err := image.DecodeConfig(bytes.NewReader(icon.Content()))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 64, cfg.Width)

		_, err = am.GetIcon("non_existent.png")
		assert.Error(t, err)

		_, err = am.GetIcon("")
		assert.Error(t, err)
	})

	t.Run("GetText", func(t *testing.T) {
		text, err := am.GetText("about.txt")
		assert.NoError(t, err)
		assert.Contains(t, text, "Ctrl+Alt+W")

		_, err = am.GetText("non_existent.txt")
		assert.Error(t, err)
	})
}
