package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

// renderMarkdown pretty-prints markdown. The auto style falls back to plain
// output when stdout is not a terminal.
func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printField(name string, value any) {
	dimColor.Printf("   %-16s", name+":")
	fmt.Println(value)
}
