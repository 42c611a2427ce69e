// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
// These are the keys users can override in the theme section of their config.
type ColorToken string

const (
	TokenInsertion ColorToken = "insertion"
	TokenDeletion  ColorToken = "deletion"
	TokenMuted     ColorToken = "muted"
	TokenAccent    ColorToken = "accent"
)

// AllTokens returns every themeable token.
func AllTokens() []ColorToken {
	return []ColorToken{TokenInsertion, TokenDeletion, TokenMuted, TokenAccent}
}
