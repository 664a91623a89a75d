package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/zhubert/scrollback/internal/content"
)

// Compiled regex patterns for markdown parsing
var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern     = regexp.MustCompile(`\*([^*\s](?:[^*]*[^*\s])?)\*`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	numberedPattern   = regexp.MustCompile(`^(\d{1,2})\. `)
)

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// renderInlineMarkdown applies inline formatting (code, bold, italics, links) to a line
func renderInlineMarkdown(line string) string {
	// Protect code spans from the other patterns
	var spans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		spans = append(spans, MarkdownInlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00CODE%d\x00", len(spans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownBoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	line = italicPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownItalicStyle.Render(italicPattern.FindStringSubmatch(match)[1])
	})

	line = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		return MarkdownLinkStyle.Render(parts[1]) + " (" + MarkdownLinkStyle.Render(parts[2]) + ")"
	})

	for i, rendered := range spans {
		line = strings.Replace(line, fmt.Sprintf("\x00CODE%d\x00", i), rendered, 1)
	}
	return line
}

// wrapText wraps text to the specified width, handling ANSI escape codes
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wrap(text, width, "")
}

// indentContinuation wraps text and indents every line after the first.
func indentContinuation(text string, width int, indent string) string {
	lines := strings.Split(wrapText(text, width), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownLine renders a single line with markdown formatting
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "### "):
		return MarkdownH3Style.Render(strings.TrimPrefix(trimmed, "### "))
	case strings.HasPrefix(trimmed, "## "):
		return MarkdownH2Style.Render(strings.TrimPrefix(trimmed, "## "))
	case strings.HasPrefix(trimmed, "# "):
		return MarkdownH1Style.Render(strings.TrimPrefix(trimmed, "# "))
	case trimmed == "---" || trimmed == "***" || trimmed == "___":
		return MarkdownHRStyle.Render(strings.Repeat("─", max(1, min(width, 32))))
	case strings.HasPrefix(trimmed, "> "):
		body := renderInlineMarkdown(strings.TrimPrefix(trimmed, "> "))
		return MarkdownBlockquoteStyle.Render("│ " + indentContinuation(body, width-2, "│ "))
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		bullet := MarkdownListBulletStyle.Render("•")
		return "  " + bullet + " " + indentContinuation(renderInlineMarkdown(trimmed[2:]), width-4, "    ")
	}

	if m := numberedPattern.FindStringSubmatch(trimmed); m != nil {
		number := MarkdownListBulletStyle.Render(m[1] + ".")
		body := renderInlineMarkdown(strings.TrimPrefix(trimmed, m[0]))
		return "  " + number + " " + indentContinuation(body, width-5, "     ")
	}

	return wrapText(renderInlineMarkdown(line), width)
}

// renderMarkdown renders markdown content with syntax-highlighted code blocks
func renderMarkdown(body string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var result strings.Builder
	inCodeBlock := false
	codeBlockLang := ""
	var codeBlockContent strings.Builder

	flushCode := func() {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(highlightCode(codeBlockContent.String(), codeBlockLang))
		result.WriteString("\n")
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "```") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				codeBlockContent.Reset()
			} else {
				inCodeBlock = false
				flushCode()
				codeBlockLang = ""
			}
			continue
		}

		if inCodeBlock {
			if codeBlockContent.Len() > 0 {
				codeBlockContent.WriteString("\n")
			}
			codeBlockContent.WriteString(line)
			continue
		}
		result.WriteString(renderMarkdownLine(line, width))
		result.WriteString("\n")
	}

	// An unterminated block still gets highlighted
	if inCodeBlock {
		flushCode()
	}

	// Code lines are not wrapped by the lexer; hard wrap anything too wide.
	return wrapText(strings.TrimRight(result.String(), "\n"), width)
}

// renderedItem is an item laid out at one width.
type renderedItem struct {
	fingerprint uint64
	width       int
	lines       []string
}

// renderItem lays out item as an author line followed by its body. The
// gutter is not included; it depends on highlight state, not on the item.
func renderItem(item content.Item, width int) renderedItem {
	bodyWidth := max(1, width-GutterWidth)
	lines := []string{ansi.Truncate(renderAuthorLine(item), bodyWidth, "…")}
	if body := strings.TrimSpace(item.Body); body != "" {
		lines = append(lines, strings.Split(renderMarkdown(body, bodyWidth), "\n")...)
	}
	return renderedItem{fingerprint: item.Fingerprint(), width: width, lines: lines}
}

func renderAuthorLine(item content.Item) string {
	authorStyle := ChatPeerStyle
	if item.Outgoing {
		authorStyle = ChatUserStyle
	}
	line := authorStyle.Render(item.Author)
	if !item.Timestamp.IsZero() {
		line += " " + TimestampStyle.Render(item.Timestamp.Format("15:04"))
	}
	if item.Outgoing {
		if s := renderStatus(item.Status); s != "" {
			line += " " + s
		}
	}
	return line
}

func renderStatus(status content.Status) string {
	switch status {
	case content.StatusSending:
		return StatusSendingStyle.Render("sending…")
	case content.StatusSent:
		return StatusSentStyle.Render("✓")
	case content.StatusDelivered:
		return StatusDeliveredStyle.Render("✓✓")
	case content.StatusFailed:
		return StatusFailedStyle.Render("! not sent")
	}
	return ""
}

// renderGroupHeader renders a centered divider carrying the group title.
func renderGroupHeader(title string, width int) string {
	label := " " + title + " "
	side := max(0, (width-ansi.StringWidth(label))/2)
	line := strings.Repeat("─", side) + label + strings.Repeat("─", side)
	return ansi.Truncate(GroupHeaderStyle.Render(line), max(1, width), "")
}

// renderGutter returns the bar drawn left of each line of an item.
func renderGutter(item content.Item, highlighted bool) string {
	switch {
	case highlighted:
		return GutterHighlightStyle.Render("┃") + " "
	case item.Outgoing:
		return GutterUserStyle.Render("▏") + " "
	default:
		return GutterPeerStyle.Render("▏") + " "
	}
}

// emptyTranscript renders the placeholder shown before anything has loaded.
func emptyTranscript(width int, loading bool) string {
	text := "No messages yet"
	if loading {
		text = "Loading conversation…"
	}
	return lipgloss.PlaceHorizontal(max(1, width), lipgloss.Center, EmptyChatStyle.Render(text))
}
