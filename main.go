// hdlg inspects PlayStation 2 APA-formatted hard drives: it finds attached
// disks, tells which carry an APA partition table, and lists or installs
// games through hdl-dump.
//
// Build:
//
//	go build -o hdlg .
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hdlg/config"
	"hdlg/hdldump"
	"hdlg/logger"
)

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg *config.Config
	log logger.Logger
}

// tool locates hdl-dump per the configured override or PATH.
func (a *app) tool() (*hdldump.Tool, error) {
	path, err := hdldump.Locate(a.cfg.HDLDumpPath)
	if err != nil {
		return nil, err
	}
	return hdldump.New(path, a.log), nil
}

func newRootCmd() *cobra.Command {
	a := &app{log: logger.Nop()}
	var cfgPath, logLevel, hdlDump string

	root := &cobra.Command{
		Use:           "hdlg",
		Short:         "PS2 APA hard drive inspector",
		Long:          "Find PlayStation 2 APA-formatted drives, report their usage and manage installed games via hdl-dump",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("hdl-dump") {
				cfg.HDLDumpPath = hdlDump
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
			warnIfNotElevated(a.log)
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&hdlDump, "hdl-dump", "", "hdl-dump binary name or path")

	root.AddCommand(newDeviceCmd(a), newGameCmd(a), newISOCmd(a))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	must(err)
}
