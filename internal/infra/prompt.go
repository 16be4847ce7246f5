package infra

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/trymirror/scanflow/internal/domain"
)

// TerminalPermissionRequester implements domain.PermissionRequester with an
// interactive terminal confirmation. The read blocks until the user answers
// or ctx is canceled (screen teardown).
type TerminalPermissionRequester struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalPermissionRequester creates a requester over the given streams.
func NewTerminalPermissionRequester(in io.Reader, out io.Writer) *TerminalPermissionRequester {
	return &TerminalPermissionRequester{in: in, out: out}
}

// Request prompts once and maps the answer to granted or denied.
// Anything other than an explicit yes is a denial.
func (r *TerminalPermissionRequester) Request(ctx context.Context) (domain.PermissionState, error) {
	fmt.Fprint(r.out, "Allow scanflow to access the camera? [y/N] ")

	answers := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(r.in)
		if scanner.Scan() {
			answers <- scanner.Text()
			return
		}
		answers <- ""
	}()

	select {
	case <-ctx.Done():
		return domain.PermissionUnrequested, ctx.Err()
	case answer := <-answers:
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return domain.PermissionGranted, nil
		default:
			return domain.PermissionDenied, nil
		}
	}
}

// StaticPermissionRequester always answers with a fixed state.
// Used by the non-interactive scan mode and in tests.
type StaticPermissionRequester struct {
	State domain.PermissionState
}

// Request returns the configured state.
func (r *StaticPermissionRequester) Request(ctx context.Context) (domain.PermissionState, error) {
	if err := ctx.Err(); err != nil {
		return domain.PermissionUnrequested, err
	}
	return r.State, nil
}

// Ensure both requesters implement domain.PermissionRequester.
var (
	_ domain.PermissionRequester = (*TerminalPermissionRequester)(nil)
	_ domain.PermissionRequester = (*StaticPermissionRequester)(nil)
)
