package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	ColorCyan   = lipgloss.Color("12")
	ColorYellow = lipgloss.Color("11")
	ColorRed    = lipgloss.Color("9")
	ColorGray   = lipgloss.Color("8")

	BannerTitleStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	BannerDimStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	ResultStyle      = lipgloss.NewStyle().Foreground(ColorYellow)
	EvalErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
)

const bannerWidth = 78

// BannerInfo is what the startup banner describes.
type BannerInfo struct {
	App     string
	Version string
	Names   []string
}

// RenderBanner lists the namespace, wrapped to the terminal width.
func RenderBanner(info BannerInfo) string {
	var sb strings.Builder
	title := "taskq shell"
	if info.Version != "" {
		title += " " + info.Version
	}
	if info.App != "" {
		title += " (app: " + info.App + ")"
	}
	sb.WriteString(BannerTitleStyle.Render(title))
	sb.WriteString("\n")
	if len(info.Names) > 0 {
		names := wordwrap.String("Namespace: "+strings.Join(info.Names, ", "), bannerWidth)
		sb.WriteString(names)
		sb.WriteString("\n")
	}
	sb.WriteString(BannerDimStyle.Render("Type exit or press Ctrl+D to leave."))
	sb.WriteString("\n")
	return sb.String()
}

func printResult(w io.Writer, out string) {
	if out == "" {
		return
	}
	fmt.Fprintln(w, ResultStyle.Render(out))
}

func printEvalError(w io.Writer, err error) {
	fmt.Fprintln(w, EvalErrorStyle.Render(err.Error()))
}
