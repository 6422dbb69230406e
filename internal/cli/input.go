package cli

import (
	"bufio"
	"context"
	"io"
	"strings"

	"golang.org/x/term"
)

// PasswordFunc reads a secret without echoing it.
type PasswordFunc func() (string, error)

// TerminalPassword returns a PasswordFunc for fd, or nil when fd is not a terminal.
func TerminalPassword(fd int) PasswordFunc {
	if !term.IsTerminal(fd) {
		return nil
	}

	return func() (string, error) {
		secret, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
}

type lineResult struct {
	line string
	ok   bool
}

// lineReader reads input lines on a helper goroutine so that a read can be abandoned
// on cancellation. An abandoned read is picked up by the next call.
type lineReader struct {
	scanner *bufio.Scanner
	pending chan lineResult
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(in)}
}

func (r *lineReader) next() <-chan lineResult {
	if r.pending == nil {
		ch := make(chan lineResult, 1)
		r.pending = ch
		go func() {
			ok := r.scanner.Scan()
			ch <- lineResult{line: r.scanner.Text(), ok: ok}
		}()
	}

	return r.pending
}

// busy reports whether a read is still waiting for input.
func (r *lineReader) busy() bool {
	return r.pending != nil
}

// take consumes a result received from next.
func (r *lineReader) take(res lineResult) (string, error) {
	r.pending = nil
	if !res.ok {
		return "", io.EOF
	}

	return strings.TrimSpace(res.line), nil
}

// read returns the next trimmed line, io.EOF at the end of input or the context error.
func (r *lineReader) read(ctx context.Context) (string, error) {
	select {
	case res := <-r.next():
		return r.take(res)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
