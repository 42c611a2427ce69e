// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Mode   string
	Colors map[string]string
}

// ApplyTheme applies a theme configuration:
// 1. Force light or dark mode if requested
// 2. Apply individual color overrides
// 3. Rebuild all Style objects
//
// Nothing is changed when any override is invalid.
func ApplyTheme(cfg ThemeConfig) error {
	colors := make(map[ColorToken]string, len(cfg.Colors))
	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	switch strings.ToLower(cfg.Mode) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "":
	default:
		return fmt.Errorf("unknown theme mode: %s", cfg.Mode)
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	// Same color for both modes
	makeColor := func(hex string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}

	if c, ok := colors[TokenInsertion]; ok {
		InsertionColor = makeColor(c)
	}
	if c, ok := colors[TokenDeletion]; ok {
		DeletionColor = makeColor(c)
		StatusErrorColor = makeColor(c)
	}
	if c, ok := colors[TokenMuted]; ok {
		TextMutedColor = makeColor(c)
		BorderDefaultColor = makeColor(c)
	}
	if c, ok := colors[TokenAccent]; ok {
		BorderFocusColor = makeColor(c)
		HunkColor = makeColor(c)
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
