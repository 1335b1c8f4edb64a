// Package hdldump runs the hdl-dump command-line utility and parses its
// reports into typed records.
package hdldump

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"hdlg/logger"
)

// BinaryNames are the executable names hdl-dump is distributed under.
var BinaryNames = []string{"hdl-dump", "hdl_dump"}

// Locate finds hdl-dump. A non-empty override (name or path) is used as is;
// otherwise each of BinaryNames is looked up in PATH.
func Locate(override string) (string, error) {
	if override != "" {
		p, err := exec.LookPath(override)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, override, err)
		}
		return p, nil
	}
	for _, name := range BinaryNames {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in PATH (tried %s)", ErrToolNotFound, strings.Join(BinaryNames, ", "))
}

// Tool invokes one hdl-dump binary. It has no timeout of its own; cancel
// the context to terminate a running process.
type Tool struct {
	Path string

	log     logger.Logger
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New returns a Tool for the binary at path. log may be nil.
func New(path string, log logger.Logger) *Tool {
	return &Tool{
		Path:    path,
		log:     logger.OrNop(log),
		command: exec.CommandContext,
	}
}

// RunCaptured runs hdl-dump to completion and returns its stdout lines.
func (t *Tool) RunCaptured(ctx context.Context, args ...string) ([]string, error) {
	var stdout, stderr bytes.Buffer
	cmd := t.command(ctx, t.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.log.Debug("hdl-dump", "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, t.toolError(args, err, stderr.String())
	}
	return splitLines(stdout.Bytes()), nil
}

// RunStreaming starts hdl-dump and returns a Stream over its stdout lines.
// The caller must call Wait or Close.
func (t *Tool) RunStreaming(ctx context.Context, args ...string) (*Stream, error) {
	cmd := t.command(ctx, t.Path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	s := &Stream{ctx: ctx, tool: t, args: args, cmd: cmd, stdout: stdout}
	cmd.Stderr = &s.stderr

	t.log.Debug("hdl-dump (streaming)", "args", args)
	if err := cmd.Start(); err != nil {
		return nil, t.toolError(args, err, "")
	}
	s.scanner = bufio.NewScanner(stdout)
	s.scanner.Split(scanLines)
	return s, nil
}

func (t *Tool) toolError(args []string, err error, stderr string) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	te := &ToolError{
		Args:     args,
		ExitCode: code,
		Stderr:   stderr,
		Kind:     classify(code, stderr),
		Err:      err,
	}
	t.log.Debug("hdl-dump failed", "args", args, "exit", code, "kind", te.Kind.String())
	return te
}

// Stream yields hdl-dump output one line at a time as the process flushes
// it. It is single-use and not safe for concurrent use.
type Stream struct {
	ctx     context.Context
	tool    *Tool
	args    []string
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	scanner *bufio.Scanner
	stderr  bytes.Buffer
	line    string

	waited  bool
	waitErr error
}

// Scan advances to the next non-blank line. It returns false once the
// process has closed its output.
func (s *Stream) Scan() bool {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		s.line = line
		return true
	}
	return false
}

// Text returns the line read by the last successful Scan.
func (s *Stream) Text() string { return s.line }

// Wait discards any unread output, waits for the process and reports how
// it exited.
func (s *Stream) Wait() error {
	if s.waited {
		return s.waitErr
	}
	s.waited = true
	_, _ = io.Copy(io.Discard, s.stdout)
	err := s.cmd.Wait()
	switch {
	case err != nil && s.ctx.Err() != nil:
		s.waitErr = s.ctx.Err()
	case err != nil:
		s.waitErr = s.tool.toolError(s.args, err, s.stderr.String())
	case s.scanner.Err() != nil:
		s.waitErr = fmt.Errorf("read hdl-dump output: %w", s.scanner.Err())
	}
	return s.waitErr
}

// Close terminates the process if it is still running and releases it.
func (s *Stream) Close() error {
	if s.waited {
		return nil
	}
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.Wait()
	return nil
}

func splitLines(b []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Split(scanLines)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// scanLines is bufio.ScanLines that also ends a line at a lone '\r', which
// hdl-dump uses to redraw its progress line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
