package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	Green = lipgloss.Color("#22C55E")
	Amber = lipgloss.Color("#F59E0B")
	Red   = lipgloss.Color("#EF4444")
	Cyan  = lipgloss.Color("#06B6D4")
	Gray  = lipgloss.Color("#9CA3AF")
	White = lipgloss.Color("#F9FAFB")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(Green).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(Cyan)
	debugStyle   = lipgloss.NewStyle().Foreground(Gray)
	warnStyle    = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(White).Bold(true).Underline(true)
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput redirects all ui output and returns a function restoring the previous writer.
func SetOutput(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return func() {
		mu.Lock()
		defer mu.Unlock()
		out = prev
	}
}

func printStyled(style lipgloss.Style, format string, a ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, style.Render(msg))
}

func Success(format string, a ...any) { printStyled(successStyle, format, a...) }
func Info(format string, a ...any)    { printStyled(infoStyle, format, a...) }
func Debug(format string, a ...any)   { printStyled(debugStyle, format, a...) }
func Warn(format string, a ...any)    { printStyled(warnStyle, format, a...) }
func Error(format string, a ...any)   { printStyled(errorStyle, format, a...) }

// Section prints a bold title followed by indented lines.
func Section(title string, textLines []string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, titleStyle.Render(title))
	for _, line := range textLines {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
