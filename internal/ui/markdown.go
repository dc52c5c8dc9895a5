package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// RenderMarkdown renders markdown (run summaries, history listings) for
// terminal display with the shared Magpie style.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(magpieMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	// glamour appends trailing newlines; normalize to one.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

func magpieMarkdownStyle() ansi.StyleConfig {
	accent := AccentColor()
	muted := "8"
	boolPtr := func(b bool) *bool { return &b }
	strPtr := func(s string) *string { return &s }

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockPrefix: "\n",
				BlockSuffix: "\n",
			},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Bold:  boolPtr(true),
				Color: strPtr(accent),
			},
		},
		Link: ansi.StylePrimitive{
			Color:     strPtr(accent),
			Underline: boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: strPtr(muted),
			},
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  strPtr(muted),
			Format: "\n--------\n",
		},
	}
}
