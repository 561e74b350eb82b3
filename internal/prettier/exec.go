package prettier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecName is the backend name reported in exec FormatErrors.
const ExecName = "prettier"

// DefaultCommand is the prettier invocation used when none is configured.
var DefaultCommand = []string{"prettier"}

// Exec runs an external prettier-compatible command once per block, feeding
// the text on stdin and reading the result from stdout.
type Exec struct {
	Command []string
	Timeout time.Duration
}

// NewExec returns an exec backend. An empty command falls back to DefaultCommand.
func NewExec(command []string, timeout time.Duration) *Exec {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Exec{Command: append([]string(nil), command...), Timeout: timeout}
}

// Available reports whether the command resolves on PATH.
func (e *Exec) Available() bool {
	if len(e.Command) == 0 {
		return false
	}
	_, err := exec.LookPath(e.Command[0])
	return err == nil
}

// Format implements Formatter.
func (e *Exec) Format(ctx context.Context, text string, p Parser, opts Options) (string, error) {
	if len(e.Command) == 0 {
		return "", &FormatError{Backend: ExecName, Parser: p, Message: "no command configured", Err: ErrNoBackend}
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append([]string(nil), e.Command[1:]...)
	args = append(args, "--parser", string(p))
	args = append(args, opts.Flags()...)

	// #nosec G204 -- command comes from the user's own configuration
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return "", &FormatError{
					Backend: ExecName,
					Parser:  p,
					Message: fmt.Sprintf("timed out after %s", e.Timeout),
					Err:     ctxErr,
				}
			}
			return "", ctxErr
		}
		msg := cleanStderr(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", &FormatError{Backend: ExecName, Parser: p, Message: msg, Err: err}
	}
	return stdout.String(), nil
}

// cleanStderr drops prettier's "[error] " prefixes and the stdin pseudo path.
func cleanStderr(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimPrefix(line, "[error] ")
		line = strings.TrimPrefix(line, "stdin: ")
		if strings.HasPrefix(line, "[warn] ") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
