package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/doeshing/retest-go/internal/app"
	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/infrastructure/cli/helpers"
)

type evaluateOptions struct {
	subjectFile string
	engine      string
	asJSON      bool
	noHistory   bool
	timing      bool
	exitCode    bool
}

// subject is one string to evaluate; name is set when it came from a file.
type subject struct {
	name string
	text string
}

// NewMatchCommand creates the match command
func NewMatchCommand(container *app.Container) *cobra.Command {
	return newEvaluateCommand(container, domain.OpMatch, "Test whether the pattern matches and show capture groups")
}

// NewFindCommand creates the find command
func NewFindCommand(container *app.Container) *cobra.Command {
	return newEvaluateCommand(container, domain.OpFind, "List every non-overlapping match with its byte range")
}

// NewSplitCommand creates the split command
func NewSplitCommand(container *app.Container) *cobra.Command {
	return newEvaluateCommand(container, domain.OpSplit, "Split the string on every match of the pattern")
}

func newEvaluateCommand(container *app.Container, op domain.Operation, short string) *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <pattern> [string|-]", op),
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, container, op, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.subjectFile, "subject-file", "f", "", "Read the string from files matching this glob (supports **)")
	cmd.Flags().StringVarP(&opts.engine, "engine", "e", "", "Override the regex engine (re2|regexp2)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this run in the history")
	cmd.Flags().BoolVar(&opts.timing, "timing", false, "Show how long the evaluation took")
	cmd.Flags().BoolVar(&opts.exitCode, "exit-code", false, "Exit non-zero when the report is not successful")
	return cmd
}

// runEvaluate evaluates the pattern against every subject, printing each
// report and recording each run in the history.
func runEvaluate(cmd *cobra.Command, container *app.Container, op domain.Operation, args []string, opts evaluateOptions) error {
	evaluator, err := container.EvaluatorFor(opts.engine)
	if err != nil {
		return err
	}
	subjects, err := resolveSubjects(cmd.InOrStdin(), args, opts.subjectFile)
	if err != nil {
		return err
	}

	pattern := args[0]
	renderer := helpers.NewRenderer(cmd.OutOrStdout())
	renderer.Timing = opts.timing
	allOK := true

	for _, subj := range subjects {
		if subj.name != "" && !opts.asJSON {
			renderer.Plain("== " + subj.name)
		}
		rep := evaluator.Evaluate(op, pattern, subj.text)
		if opts.asJSON {
			if err := renderer.ReportJSON(rep); err != nil {
				return err
			}
		} else {
			renderer.Report(rep)
		}
		if !opts.noHistory {
			container.History().Add(op, pattern, subj.text)
		}
		allOK = allOK && rep.OK
	}

	if opts.exitCode && !allOK {
		return ErrNotOK
	}
	return nil
}

func resolveSubjects(in io.Reader, args []string, glob string) ([]subject, error) {
	if glob != "" {
		if len(args) > 1 {
			return nil, fmt.Errorf(ErrSubjectConflict)
		}
		return subjectsFromGlob(glob)
	}
	if len(args) < 2 {
		return []subject{{}}, nil
	}
	if args[1] != "-" {
		return []subject{{text: args[1]}}, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read string from stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	text = strings.TrimSuffix(text, "\r")
	return []subject{{text: text}}, nil
}

func subjectsFromGlob(glob string) ([]subject, error) {
	paths, err := doublestar.FilepathGlob(glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob %s: %w", glob, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %s", glob)
	}
	subjects := make([]subject, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		subjects = append(subjects, subject{name: path, text: string(data)})
	}
	return subjects, nil
}
