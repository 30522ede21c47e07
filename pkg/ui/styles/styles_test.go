package styles_test

import (
	"testing"

	"github.com/arthur-debert/annexfs/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expectedStyles := []string{
		"Header", "Success", "Error", "Warning", "Info",
		"Muted", "Bold", "FilePath", "EntryID", "Stale", "TableHeader",
	}

	for _, styleName := range expectedStyles {
		t.Run(styleName, func(t *testing.T) {
			_, exists := styles.StyleRegistry[styleName]
			assert.True(t, exists, "Style %s should exist in registry", styleName)
		})
	}
}

func TestLoadStylesFromData(t *testing.T) {
	saved := styles.StyleRegistry
	t.Cleanup(func() { styles.StyleRegistry = saved })

	data := []byte(`
colors:
  accent:
    light: "#000000"
    dark: "#FFFFFF"
styles:
  Loud:
    bold: true
    foreground: accent
  Wide:
    width: 12
`)
	require.NoError(t, styles.LoadStylesFromData(data))

	loud := styles.GetStyle("Loud")
	assert.True(t, loud.GetBold())
	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}, loud.GetForeground())
	assert.Equal(t, 12, styles.GetStyle("Wide").GetWidth())

	_, exists := styles.StyleRegistry["Header"]
	assert.False(t, exists, "loading replaces the registry")

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
}

func TestGetStyleFallback(t *testing.T) {
	style := styles.GetStyle("NoSuchStyle")
	assert.False(t, style.GetBold())
	assert.Equal(t, "plain", styles.Render("NoSuchStyle", "plain"))
}
