package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"hdlg/config"
	"hdlg/hdd"
	"hdlg/hdldump"
	"hdlg/tui"
)

func newGameCmd(a *app) *cobra.Command {
	gameCmd := &cobra.Command{
		Use:   "game",
		Short: "Installed game utilities",
	}

	listCmd := &cobra.Command{
		Use:   "list <target>",
		Short: "List the games installed on an APA drive, by game ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolTarget, err := requireAPA(args[0], a)
			if err != nil {
				return err
			}
			tool, err := a.tool()
			if err != nil {
				return err
			}
			games, err := tool.Games(cmd.Context(), toolTarget)
			if err != nil {
				return err
			}
			renderGames(cmd.OutOrStdout(), games)
			return nil
		},
	}

	var uiMode string
	var stopOnError bool
	installCmd := &cobra.Command{
		Use:   "install <target> <image>...",
		Short: "Install PS2 disc images onto an APA drive",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ui") {
				uiMode = a.cfg.UI
			}
			if !cmd.Flags().Changed("stop-on-error") {
				stopOnError = !a.cfg.BatchContinueOnError
			}
			toolTarget, err := requireAPA(args[0], a)
			if err != nil {
				return err
			}
			tool, err := a.tool()
			if err != nil {
				return err
			}
			if err := hdldump.GuardWriters(cmd.Context(), toolTarget); err != nil {
				return err
			}
			return a.install(cmd.Context(), cmd.OutOrStdout(), tool, toolTarget, args[1:], uiMode, stopOnError)
		},
	}
	installCmd.Flags().StringVar(&uiMode, "ui", config.UIAuto, "progress display: auto, tui or plain")
	installCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "abort the batch at the first failed image")

	gameCmd.AddCommand(listCmd, installCmd)
	return gameCmd
}

func (a *app) install(ctx context.Context, out io.Writer, tool *hdldump.Tool, target string, images []string, uiMode string, stopOnError bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sink progressSink = &plainSink{w: out, total: len(images)}
	if useScreen(uiMode) {
		screen, err := tui.New()
		if err != nil {
			return fmt.Errorf("start progress screen: %w", err)
		}
		defer screen.Close()
		go func() {
			select {
			case <-screen.Stopped():
				cancel()
			case <-ctx.Done():
			}
		}()
		sink = newScreenSink(screen, target, images)
	}

	n, err := installBatch(ctx, toolInjector{tool}, target, images, stopOnError, sink, a.log)
	a.log.Info("install finished", "installed", n, "requested", len(images))
	if err != nil {
		return fmt.Errorf("%d of %d images installed: %w", n, len(images), err)
	}
	return nil
}

func useScreen(mode string) bool {
	switch mode {
	case config.UITUI:
		return true
	case config.UIPlain:
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// requireAPA refuses targets without an APA partition table and returns the
// name hdl-dump knows the target by.
func requireAPA(target string, a *app) (string, error) {
	info, err := inspectDevice(target, a)
	if err != nil {
		return "", err
	}
	if !info.APA {
		return "", fmt.Errorf("%s is not APA (PS2) formatted", info.Target)
	}
	return info.ToolTarget, nil
}

func renderGames(w io.Writer, games []hdldump.GameRecord) {
	if len(games) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no games installed"))
		return
	}
	var total uint64
	for _, g := range games {
		line := fmt.Sprintf("%-12s  %-4s  %10s  %s", g.GameID, g.MediaType, hdd.FormatSize(g.Size), g.Name)
		if g.Malformed {
			line = warnStyle.Render(line)
		}
		fmt.Fprintln(w, line)
		total += g.Size
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d games, %s", len(games), hdd.FormatSize(total))))
}
