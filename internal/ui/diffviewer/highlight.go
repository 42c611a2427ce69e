package diffviewer

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/branchdiff/internal/cachemanager"
	"github.com/zjrosen/branchdiff/internal/log"
)

// lexerEntry lets a missing lexer be cached like a found one.
type lexerEntry struct {
	lexer chroma.Lexer
}

type lineInput struct {
	lexer chroma.Lexer
	text  string
}

// highlighter colors single diff lines by the language of their file.
// Lines are tokenised on their own, so constructs spanning lines (block
// comments, raw strings) are only colored on the line that opens them.
type highlighter struct {
	lexers *cachemanager.InMemoryCacheManager[string, lexerEntry]
	lines  *cachemanager.ReadThroughCache[string, string, lineInput]
	logger *log.Logger
}

func newHighlighter(logger *log.Logger) *highlighter {
	lineCache := cachemanager.NewInMemoryCacheManager[string, string]("highlight-lines", logger,
		cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return &highlighter{
		lexers: cachemanager.NewInMemoryCacheManager[string, lexerEntry]("highlight-lexers", logger,
			cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		lines:  cachemanager.NewReadThroughCache[string, string, lineInput](lineCache, tokenise, false),
		logger: logger,
	}
}

// lexerFor returns the lexer registered for the file name, or nil. Files
// are grouped by extension, or by base name when they have none.
func (h *highlighter) lexerFor(filePath string) chroma.Lexer {
	key := path.Ext(filePath)
	if key == "" {
		key = path.Base(filePath)
	}
	if e, ok := h.lexers.Get(key); ok {
		return e.lexer
	}

	lexer := lexers.Match(path.Base(filePath))
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
		h.logger.Debug(log.CatHighlight, "lexer selected", "path", filePath, "lexer", lexer.Config().Name)
	}
	h.lexers.Set(key, lexerEntry{lexer: lexer})
	return lexer
}

// Highlight returns text with ANSI colors, or text unchanged when the
// language is unknown.
func (h *highlighter) Highlight(filePath, text string) string {
	if text == "" {
		return text
	}
	lexer := h.lexerFor(filePath)
	if lexer == nil {
		return text
	}

	out, err := h.lines.Get(lexer.Config().Name+"\x00"+text, lineInput{lexer: lexer, text: text})
	if err != nil {
		h.logger.Warn(log.CatHighlight, "tokenise failed", "path", filePath, "error", err)
		return text
	}
	return out
}

func tokenise(in lineInput) (string, error) {
	iterator, err := in.lexer.Tokenise(nil, in.text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}
		b.WriteString(tokenStyle(token.Type).Render(value))
	}
	return b.String(), nil
}

// tokenStyle maps token categories to foreground colors, loosely One Dark.
func tokenStyle(tt chroma.TokenType) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch {
	case tt.InCategory(chroma.Keyword):
		return s.Foreground(lipgloss.Color("#C678DD")).Bold(true)
	case tt.InCategory(chroma.Comment):
		return s.Foreground(lipgloss.Color("#5C6370"))
	case tt.InSubCategory(chroma.String):
		return s.Foreground(lipgloss.Color("#98C379"))
	case tt.InSubCategory(chroma.Number):
		return s.Foreground(lipgloss.Color("#D19A66"))
	case tt.InCategory(chroma.Operator):
		return s.Foreground(lipgloss.Color("#56B6C2"))
	case tt == chroma.NameBuiltin || tt == chroma.NameBuiltinPseudo:
		return s.Foreground(lipgloss.Color("#E5C07B"))
	case tt == chroma.NameFunction || tt == chroma.NameFunctionMagic:
		return s.Foreground(lipgloss.Color("#61AFEF"))
	default:
		return s
	}
}
