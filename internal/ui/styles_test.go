package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoColorStyles_RenderPlainText(t *testing.T) {
	// Given: no color styles
	styles := NoColorStyles()

	// Then: glyphs render unchanged
	assert.Equal(t, "✓", styles.Pass.Render("✓"))
	assert.Equal(t, "⚠", styles.Warn.Render("⚠"))
	assert.Equal(t, "✗", styles.Fail.Render("✗"))
	assert.Equal(t, "ℹ", styles.Info.Render("ℹ"))
	assert.Equal(t, "Results", styles.Header.Render("Results"))
}

func TestDefaultStyles_RenderContainsText(t *testing.T) {
	// Given: default styles
	styles := DefaultStyles()

	// When: rendering glyphs
	pass := styles.Pass.Render("✓")
	fail := styles.Fail.Render("✗")

	// Then: the text survives styling
	assert.Contains(t, pass, "✓")
	assert.Contains(t, fail, "✗")
}

func TestGetStyles(t *testing.T) {
	assert.Equal(t, "x", GetStyles(true).Pass.Render("x"))
	assert.Contains(t, GetStyles(false).Pass.Render("x"), "x")
}
