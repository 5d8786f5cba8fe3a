package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/taxdesk/internal/client/views"
	"github.com/dmitrijs2005/taxdesk/internal/common"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type inputResult struct {
	line string
	err  error
}

type inputRequest struct {
	secret bool
	reply  chan inputResult
}

// terminal reads input only when asked. A single goroutine (serve) owns the
// reader, so a password read never races a buffered line read.
type terminal struct {
	reader   *bufio.Reader
	out      io.Writer
	fd       int
	requests chan inputRequest
	done     chan struct{}
}

// newTerminal reads lines from in and echoes prompts to out. fd is the file
// descriptor used for password reads; -1 disables no-echo input.
func newTerminal(in io.Reader, out io.Writer, fd int) *terminal {
	return &terminal{
		reader:   bufio.NewReader(in),
		out:      out,
		fd:       fd,
		requests: make(chan inputRequest, 1),
		done:     make(chan struct{}),
	}
}

func (t *terminal) serve(ctx context.Context) {
	defer close(t.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-t.requests:
			line, err := t.read(req.secret)
			req.reply <- inputResult{line: line, err: err}
		}
	}
}

// request queues one read and returns where its result will arrive.
func (t *terminal) request(secret bool) <-chan inputResult {
	reply := make(chan inputResult, 1)
	select {
	case t.requests <- inputRequest{secret: secret, reply: reply}:
	case <-t.done:
		reply <- inputResult{err: io.EOF}
	}
	return reply
}

func (t *terminal) read(secret bool) (string, error) {
	if secret && t.fd >= 0 && isTerminal(t.fd) {
		pw, err := readPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		s := string(pw)
		common.WipeByteArray(pw)
		return s, nil
	}
	return readLine(t.reader)
}

// readLine reads one line without its line ending. If EOF occurs after some
// input was read, the partial line is returned.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *terminal) ask(ctx context.Context, label string, secret bool) (string, error) {
	if label == "" {
		fmt.Fprint(t.out, "> ")
	} else {
		fmt.Fprintf(t.out, "%s: ", label)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-t.request(secret):
		if errors.Is(res.err, io.EOF) {
			return "", views.ErrAborted
		}
		return res.line, res.err
	}
}

// prompter answers view prompts from the terminal.
type prompter struct {
	t *terminal
}

func (p prompter) Ask(ctx context.Context, label string) (string, error) {
	return p.t.ask(ctx, label, false)
}

func (p prompter) AskSecret(ctx context.Context, label string) (string, error) {
	return p.t.ask(ctx, label, true)
}
