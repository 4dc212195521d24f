// Package ui prints colored progress and result lines for the CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

// Printer writes styled lines to w.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Header prints a ruled title.
func (p *Printer) Header(text string) {
	line := strings.Repeat("=", 60)
	green.Fprintf(p.w, "%s\n%s\n%s\n", line, center(text, 60), line)
}

// Step prints a step indicator.
func (p *Printer) Step(stepNum, totalSteps int, text string) {
	yellow.Fprintf(p.w, "[%d/%d] %s\n", stepNum, totalSteps, text)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	green.Fprintf(p.w, "  ✓ %s\n", fmt.Sprintf(format, args...))
}

// Info prints an info message.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, "  → %s\n", fmt.Sprintf(format, args...))
}

// Detail prints a dimmed, further-indented line.
func (p *Printer) Detail(format string, args ...any) {
	faint.Fprintf(p.w, "      %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...any) {
	yellow.Fprintf(p.w, "  ⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	red.Fprintf(p.w, "  ✗ %s\n", fmt.Sprintf(format, args...))
}

func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
