// Package prompt asks the operator yes/no questions.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// DeleteQuestion is the generic delete confirmation
	DeleteQuestion = "Are you sure to delete attribute options? [y/N]"
	// FinalQuestion is asked after DeleteQuestion was answered yes
	FinalQuestion = "This will delete unused attribute option for the attribute you specified. Are you 100% sure about it? [y/N]"
)

// Confirmer answers yes/no questions
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Terminal reads answers line by line. Anything but y or yes is a no.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal reading from in and printing questions to out
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm prints message and waits for one line of input
func (t *Terminal) Confirm(message string) (bool, error) {
	if _, err := fmt.Fprint(t.out, message+" "); err != nil {
		return false, err
	}

	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Static always gives the same answer
type Static bool

// Confirm returns the fixed answer
func (s Static) Confirm(string) (bool, error) {
	return bool(s), nil
}

// ConfirmAll asks every question in order and stops at the first no
func ConfirmAll(c Confirmer, messages ...string) (bool, error) {
	for _, m := range messages {
		ok, err := c.Confirm(m)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
