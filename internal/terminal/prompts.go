package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter asks the user questions before destructive steps.
type Prompter interface {
	// Choose displays a numbered menu and returns the selected index (0-based).
	Choose(question string, options []string, defaultIndex int) (int, error)

	// Confirm asks a yes/no question.
	Confirm(question string, defaultYes bool) (bool, error)
}

// LinePrompter reads answers line by line. When not interactive every prompt
// returns its default without reading.
type LinePrompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter creates a prompter reading in and writing stdout that only asks
// when stdin is a terminal. in is normally the Input shared with sessions.
func NewPrompter(in io.Reader) *LinePrompter {
	return NewLinePrompter(in, os.Stdout, IsTerminal())
}

// NewLinePrompter creates a prompter on the given streams.
func NewLinePrompter(in io.Reader, out io.Writer, interactive bool) *LinePrompter {
	return &LinePrompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Choose displays a numbered menu and returns the selected index (0-based).
// The prompt includes a default option that is selected if the user presses Enter.
func (p *LinePrompter) Choose(question string, options []string, defaultIndex int) (int, error) {
	if !p.interactive {
		return defaultIndex, nil
	}

	fmt.Fprintln(p.out, question)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(p.out, "Selection [%d]: ", defaultIndex+1)
		input, err := p.readLine()
		if err != nil {
			return 0, err
		}

		// Default selection
		if input == "" {
			return defaultIndex, nil
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(options) {
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(options))
			continue
		}

		return num - 1, nil
	}
}

// Confirm asks a yes/no question. An empty answer selects the default.
func (p *LinePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	if !p.interactive {
		return defaultYes, nil
	}

	choices := "y/N"
	if defaultYes {
		choices = "Y/n"
	}

	for {
		fmt.Fprintf(p.out, "%s [%s]: ", question, choices)
		input, err := p.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(input) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (p *LinePrompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}
