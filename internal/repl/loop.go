// Package repl runs the line-oriented question loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompt is written before each question is read.
const Prompt = "> "

// Asker answers a single question.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Run reads questions from in until "exit" or end of input. Answers go to
// out and per-question failures go to errOut; a failed question does not
// stop the loop. Only read errors and context cancellation are returned.
func Run(ctx context.Context, svc Asker, in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if IsExit(question) {
			return nil
		}
		answer, err := svc.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "Answer: %s\n\n", answer)
	}
}

// IsExit reports whether line is the exit command.
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "exit")
}
