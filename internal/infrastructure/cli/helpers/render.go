package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/retest-go/internal/domain"
)

// Renderer prints evaluator reports, colouring them by outcome. Colour is
// dropped automatically when out is not a terminal.
type Renderer struct {
	out        io.Writer
	plainStyle lipgloss.Style
	okStyle    lipgloss.Style
	errStyle   lipgloss.Style
	dimStyle   lipgloss.Style
	// Timing appends the evaluation time to each report.
	Timing bool
}

// NewRenderer builds a renderer bound to out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Renderer{
		out:        out,
		plainStyle: base,
		okStyle:    base.Foreground(lipgloss.Color("2")),
		errStyle:   base.Foreground(lipgloss.Color("1")),
		dimStyle:   base.Faint(true),
	}
}

// Report prints rep.Text, green when OK and red otherwise.
func (r *Renderer) Report(rep domain.Report) {
	style := r.errStyle
	if rep.OK {
		style = r.okStyle
	}
	r.block(style, rep.Text)
	if r.Timing {
		fmt.Fprintln(r.out, r.dimStyle.Render(fmt.Sprintf("(%s)", rep.Elapsed)))
	}
}

// Plain prints text without styling.
func (r *Renderer) Plain(text string) {
	r.block(r.plainStyle, text)
}

// Error prints text in the error colour.
func (r *Renderer) Error(text string) {
	r.block(r.errStyle, text)
}

// ReportJSON prints rep as indented JSON.
func (r *Renderer) ReportJSON(rep domain.Report) error {
	view := struct {
		domain.Report
		Error string `json:"error,omitempty"`
	}{Report: rep}
	if rep.Err != nil {
		view.Error = rep.Err.Error()
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// block styles line by line so lipgloss never pads lines to a common width.
func (r *Renderer) block(style lipgloss.Style, text string) {
	text = strings.TrimRight(text, "\n")
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(r.out, style.Render(line))
	}
}
