// Package prompt asks the user for credentials and input.
//
// Terminals get [Survey]; anything else (pipes, redirected files) gets [LineReader] so scripted input works.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/mattn/go-isatty"
)

// Prompter asks one question at a time.
type Prompter interface {
	Input(message string) (string, error)
	Password(message string) (string, error)
	Confirm(message string) (bool, error)
}

// New returns a [Survey] when in is a terminal and a [LineReader] otherwise.
func New(in *os.File, out *os.File) Prompter {
	if IsTerminal(in) {
		return NewSurvey(in, out)
	}
	return NewLineReader(in, out)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Survey prompts interactively with [survey].
type Survey struct {
	opts []survey.AskOpt
}

func NewSurvey(in terminal.FileReader, out terminal.FileWriter) *Survey {
	return &Survey{opts: []survey.AskOpt{survey.WithStdio(in, out, out)}}
}

func (s *Survey) Input(message string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message}, &answer, s.opts...); err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(answer), nil
}

func (s *Survey) Password(message string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Password{Message: message}, &answer, s.opts...); err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(answer), nil
}

func (s *Survey) Confirm(message string) (bool, error) {
	var answer bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &answer, s.opts...); err != nil {
		return false, promptError(err)
	}
	return answer, nil
}

func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", shared.ErrCancelled, err)
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// LineReader reads one line per question. Passwords are echoed by whatever feeds the input.
type LineReader struct {
	r *bufio.Reader
	w io.Writer
}

func NewLineReader(r io.Reader, w io.Writer) *LineReader {
	if w == nil {
		w = io.Discard
	}
	return &LineReader{r: bufio.NewReader(r), w: w}
}

func (l *LineReader) readLine(message string) (string, error) {
	if _, err := fmt.Fprintf(l.w, "%s ", message); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	line, err := l.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", promptError(err)
	}
	return strings.TrimSpace(line), nil
}

func (l *LineReader) Input(message string) (string, error) {
	return l.readLine(message)
}

func (l *LineReader) Password(message string) (string, error) {
	return l.readLine(message)
}

// Confirm accepts y or yes in any case. End of input counts as no.
func (l *LineReader) Confirm(message string) (bool, error) {
	answer, err := l.readLine(message + " (y/N)")
	if errors.Is(err, shared.ErrCancelled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
