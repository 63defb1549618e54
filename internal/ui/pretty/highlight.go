package pretty

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

const highlightStyle = "dracula"

//nolint:gochecknoglobals // Lexer construction is expensive; built once.
var (
	rubyLexerOnce sync.Once
	rubyLexer     chroma.Lexer
)

func getRubyLexer() chroma.Lexer {
	rubyLexerOnce.Do(func() {
		if lexer := lexers.Get("ruby"); lexer != nil {
			rubyLexer = chroma.Coalesce(lexer)
		}
	})
	return rubyLexer
}

// HighlightRuby renders one line of Ruby source with terminal colors.
// The line is returned unchanged when it cannot be tokenised.
func HighlightRuby(line string) string {
	lexer := getRubyLexer()
	if lexer == nil || line == "" {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	var builder strings.Builder
	for _, token := range iterator.Tokens() {
		text := strings.TrimSuffix(token.Value, "\n")
		if text == "" {
			continue
		}
		color := tokenColor(style, token.Type)
		if color == "" {
			builder.WriteString(text)
			continue
		}
		builder.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text))
	}

	return builder.String()
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
