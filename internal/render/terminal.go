// Package render turns markdown reports into styled terminal output.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	styleAuto  = "auto"
	stylePlain = "notty"
)

// TerminalRenderer renders markdown for display in a terminal
type TerminalRenderer struct {
	renderer *glamour.TermRenderer
	style    string
}

// NewRenderer picks a styled renderer when w is a terminal and a plain one otherwise
func NewRenderer(w io.Writer, wordWrap int) (*TerminalRenderer, error) {
	if IsTerminal(w) {
		return NewTerminalRenderer(wordWrap)
	}
	return NewPlainRenderer(wordWrap)
}

// IsTerminal reports whether w is a file attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewTerminalRenderer creates a renderer that wraps lines at wordWrap columns.
// A zero wordWrap disables wrapping.
func NewTerminalRenderer(wordWrap int) (*TerminalRenderer, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return &TerminalRenderer{renderer: renderer, style: styleAuto}, nil
}

// NewPlainRenderer creates a renderer without colors, for non-terminal output
func NewPlainRenderer(wordWrap int) (*TerminalRenderer, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(stylePlain),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plain renderer: %w", err)
	}
	return &TerminalRenderer{renderer: renderer, style: stylePlain}, nil
}

// Render renders markdown
func (r *TerminalRenderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}
