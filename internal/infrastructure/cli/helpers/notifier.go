package helpers

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/retest-go/internal/ports"
)

// Notifier prints alerts to the error stream.
type Notifier struct {
	out   io.Writer
	title lipgloss.Style
}

// NewNotifier builds a notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	r := lipgloss.NewRenderer(out)
	return &Notifier{
		out:   out,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

// Alert implements ports.Notifier.
func (n *Notifier) Alert(title, message string) {
	fmt.Fprintf(n.out, "%s %s\n", n.title.Render(title+":"), message)
}

var _ ports.Notifier = (*Notifier)(nil)
