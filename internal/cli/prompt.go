package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LinePrompter reads the replacement text as one line. An empty line or EOF
// cancels.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Prompt(_ context.Context, message, current string) (string, bool, error) {
	fmt.Fprintf(p.out, "%s [%s] ", message, current)
	line, err := readLine(p.in)
	if err != nil {
		return "", false, err
	}
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}

// LineConfirmer accepts y, yes, s or sim.
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *LineConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	fmt.Fprintf(c.out, "%s [s/N] ", message)
	line, err := readLine(c.in)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}

// readLine treats EOF as an empty answer.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
