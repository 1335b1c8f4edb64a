package hdldump

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound is returned when no hdl-dump binary can be located.
	ErrToolNotFound = errors.New("hdl-dump not found")
	// ErrParse marks output that does not follow the expected line grammar.
	ErrParse = errors.New("unrecognized hdl-dump output")
	// ErrWriterBusy is returned when another hdl-dump process holds the target.
	ErrWriterBusy = errors.New("another hdl-dump process is using the target")
)

// ExitCorruptPartitionTable is the exit status hdl-dump uses when it cannot
// make sense of the APA partition table.
const ExitCorruptPartitionTable = 107

// Kind classifies a failed hdl-dump invocation.
type Kind int

const (
	KindUnknown Kind = iota
	KindVersionMismatch
	KindCorruptPartitionTable
)

func (k Kind) String() string {
	switch k {
	case KindVersionMismatch:
		return "hdl-dump version mismatch"
	case KindCorruptPartitionTable:
		return "corrupt partition table"
	default:
		return "hdl-dump failed"
	}
}

func classify(exitCode int, stderr string) Kind {
	switch {
	case strings.Contains(strings.ToLower(stderr), "unrecognized command"):
		return KindVersionMismatch
	case exitCode == ExitCorruptPartitionTable:
		return KindCorruptPartitionTable
	default:
		return KindUnknown
	}
}

// ToolError describes an hdl-dump run that could not start or exited non-zero.
// ExitCode is -1 when the process never ran.
type ToolError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Kind     Kind
	Err      error
}

func (e *ToolError) Error() string {
	cmd := "hdl-dump"
	if len(e.Args) > 0 {
		cmd += " " + e.Args[0]
	}
	msg := fmt.Sprintf("%s: %s (exit %d)", cmd, e.Kind, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ParseError reports a line that did not match the grammar of its command.
type ParseError struct {
	Command string
	Line    string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Command, e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error { return ErrParse }
