package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/doeshing/retest-go/internal/app"
	"github.com/doeshing/retest-go/internal/application/evaluate"
	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/infrastructure/cli/helpers"
)

const shellPrompt = "retest> "

const shellHelp = `Commands:
  :pattern <text>   set the pattern (:p)
  :string <text>    set the string (:s)
  :match            test the pattern against the string (:m)
  :find             list every match (:f)
  :split            split the string on the pattern (:sp)
  :history          show the execution history (:h)
  :show             show the current pattern and string
  :help             show this help
  :quit             leave the shell (:q)`

// NewShellCommand creates the interactive shell command
func NewShellCommand(container *app.Container) *cobra.Command {
	var engineName string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive tester, pre-filled with the last pattern and string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunShell(cmd.Context(), container, engineName, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&engineName, "engine", "e", "", "Override the regex engine (re2|regexp2)")
	return cmd
}

// RunShell starts a shell session reading commands from in until :quit or EOF.
func RunShell(ctx context.Context, container *app.Container, engineName string, in io.Reader, out io.Writer) error {
	evaluator, err := container.EvaluatorFor(engineName)
	if err != nil {
		return err
	}
	return NewShell(container, evaluator, in, out).Run(ctx)
}

// Shell holds the pattern and string being edited between commands.
type Shell struct {
	container   *app.Container
	evaluator   *evaluate.Service
	in          *bufio.Reader
	out         io.Writer
	renderer    *helpers.Renderer
	interactive bool

	Pattern string
	Subject string
}

// NewShell constructs a shell over the given streams.
func NewShell(container *app.Container, evaluator *evaluate.Service, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		container:   container,
		evaluator:   evaluator,
		in:          bufio.NewReader(in),
		out:         out,
		renderer:    helpers.NewRenderer(out),
		interactive: isInteractive(in),
	}
}

// Run pre-fills the shell from the most recent run and processes commands.
func (s *Shell) Run(ctx context.Context) error {
	if last, ok := s.container.History().Last(); ok {
		s.Pattern = last.Pattern
		s.Subject = last.Subject
	}
	if s.interactive {
		fmt.Fprintln(s.out, "Type :help for commands.")
		s.show()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			fmt.Fprint(s.out, shellPrompt)
		}

		line, err := s.in.ReadString('\n')
		if line != "" {
			if quit := s.Handle(strings.TrimRight(line, "\r\n")); quit {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read shell input: %w", err)
		}
	}
}

// Handle executes one input line and reports whether the shell should exit.
func (s *Shell) Handle(line string) bool {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		s.renderer.Error(`Commands start with ":" (try :help)`)
		return false
	}

	name, arg := splitCommand(line)
	switch name {
	case ":p", ":pattern":
		s.Pattern = arg
	case ":s", ":string":
		s.Subject = arg
	case ":m", ":match":
		s.run(domain.OpMatch)
	case ":f", ":find":
		s.run(domain.OpFind)
	case ":sp", ":split":
		s.run(domain.OpSplit)
	case ":h", ":history":
		printBlock(s.out, s.container.History().Render())
	case ":show":
		s.show()
	case ":help", ":?":
		fmt.Fprintln(s.out, shellHelp)
	case ":q", ":quit", ":exit":
		return true
	default:
		s.renderer.Error(fmt.Sprintf("Unknown command %s (try :help)", name))
	}
	return false
}

// splitCommand separates the command name from its argument at the first
// run of whitespace. Whitespace inside the argument is kept.
func splitCommand(line string) (name, arg string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}

func (s *Shell) run(op domain.Operation) {
	s.renderer.Report(s.evaluator.Evaluate(op, s.Pattern, s.Subject))
	s.container.History().Add(op, s.Pattern, s.Subject)
}

func (s *Shell) show() {
	fmt.Fprintf(s.out, "Pattern: %q\nString: %q\n", s.Pattern, s.Subject)
}

func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
