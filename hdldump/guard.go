package hdldump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// listToolProcesses is replaced in tests.
var listToolProcesses = runningToolCommands

// runningToolCommands returns the command lines of running hdl-dump processes.
func runningToolCommands(ctx context.Context) ([][]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	self := int32(os.Getpid())
	var out [][]string
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil || !isToolName(name) {
			continue
		}
		args, err := p.CmdlineSliceWithContext(ctx)
		if err != nil || len(args) == 0 {
			args = []string{name}
		}
		out = append(out, args)
	}
	return out, nil
}

func isToolName(name string) bool {
	base := strings.TrimSuffix(strings.ToLower(filepath.Base(name)), ".exe")
	for _, n := range BinaryNames {
		if base == n {
			return true
		}
	}
	return false
}

// GuardWriters fails with ErrWriterBusy if another hdl-dump process was
// started against target. Two writers on one disk corrupt it, and nothing
// below this layer prevents that.
func GuardWriters(ctx context.Context, target string) error {
	cmds, err := listToolProcesses(ctx)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}
	for _, args := range cmds {
		for _, a := range args[1:] {
			if strings.EqualFold(a, target) {
				return fmt.Errorf("%w: %s", ErrWriterBusy, strings.Join(args, " "))
			}
		}
	}
	return nil
}
