package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hdlg/hdd"
	"hdlg/hdldump"
)

func newDeviceCmd(a *app) *cobra.Command {
	deviceCmd := &cobra.Command{
		Use:   "device",
		Short: "Physical drive utilities (read-only)",
	}

	var concurrency int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List physical drives, PS2 (APA) drives first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.ProbeConcurrency
			}
			devices, err := hdd.ListDevices()
			if err != nil {
				return err
			}
			reports := hdd.ProbeAll(cmd.Context(), devices, concurrency, a.log)
			hdd.SortForDisplay(reports)
			renderDeviceList(cmd.OutOrStdout(), reports)
			return nil
		},
	}
	listCmd.Flags().IntVar(&concurrency, "concurrency", 0, "devices probed at once (default from config)")

	infoCmd := &cobra.Command{
		Use:   "info <target>",
		Short: "Show geometry, size, APA verdict and usage of one drive or image",
		Long:  "target is N, PhysicalDriveN, \\\\.\\PhysicalDriveN, a block device or an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := inspectDevice(args[0], a)
			if err != nil {
				return err
			}
			if info.APA {
				info.Usage, info.UsageErr = a.diskUsage(cmd.Context(), info.ToolTarget)
			}
			renderDeviceInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}

	deviceCmd.AddCommand(listCmd, infoCmd)
	return deviceCmd
}

// deviceInfo is everything "device info" prints about one target.
type deviceInfo struct {
	Target     string
	ToolTarget string
	Label      string
	Geometry   hdd.Geometry
	Size       uint64
	APA        bool
	Checksum   []byte

	Usage    *hdldump.DiskUsage
	UsageErr error
}

// inspectDevice reads geometry and the APA verdict, closing the handle
// before hdl-dump gets to touch the disk.
func inspectDevice(target string, a *app) (deviceInfo, error) {
	h, err := hdd.Open(target, "", a.log)
	if err != nil {
		return deviceInfo{}, err
	}
	defer h.Close()

	info := deviceInfo{
		Target:     h.Target,
		ToolTarget: h.ToolTarget(),
		Label:      hdd.DriveLabel(h.Target),
	}
	if info.Geometry, err = h.Geometry(); err != nil {
		return deviceInfo{}, err
	}
	info.Size = info.Geometry.DiskSize()
	if info.APA, err = h.IsAPAPartitioned(); err != nil {
		return deviceInfo{}, err
	}
	if info.APA {
		if info.Checksum, err = h.APAChecksum(); err != nil {
			return deviceInfo{}, err
		}
	}
	return info, nil
}

func (a *app) diskUsage(ctx context.Context, toolTarget string) (*hdldump.DiskUsage, error) {
	tool, err := a.tool()
	if err != nil {
		return nil, err
	}
	u, err := tool.Map(ctx, toolTarget)
	if err != nil {
		return nil, err
	}
	if u.Anomalous() {
		a.log.Warn("hdl-dump reports more space than the drive has", "target", toolTarget,
			"total", u.Total, "used", u.Used, "available", u.Available)
	}
	return &u, nil
}

func renderDeviceList(w io.Writer, reports []hdd.Report) {
	if len(reports) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no physical drives found"))
		return
	}
	for _, r := range reports {
		label := hdd.DriveLabel(r.Device.Target)
		if r.Err != nil {
			fmt.Fprintf(w, "%-10s  %-6s  %-5s  %s  %s\n", "?", label, "", r.Device.Model,
				critStyle.Render(r.Err.Error()))
			continue
		}
		marker := ""
		if r.APA {
			marker = okStyle.Render("(PS2)")
		}
		fmt.Fprintf(w, "%-10s  %-6s  %-5s  %s\n", hdd.FormatSize(r.DiskSize), label, marker, r.Device.Model)
	}
}

func renderDeviceInfo(w io.Writer, info deviceInfo) {
	g := info.Geometry
	fmt.Fprintln(w, titleStyle.Render(info.Label))
	fmt.Fprintln(w, field("Target", info.Target))
	fmt.Fprintln(w, field("hdl-dump", info.ToolTarget))
	fmt.Fprintln(w, field("Size", fmt.Sprintf("%s (%s bytes)", hdd.FormatSize(info.Size), humanize.Comma(int64(info.Size)))))
	fmt.Fprintln(w, field("Geometry", fmt.Sprintf("%d cyl, %d tracks/cyl, %d sectors/track, %d bytes/sector",
		uint64(g.CylindersLow)+uint64(g.CylindersHigh), g.TracksPerCylinder, g.SectorsPerTrack, g.BytesPerSector)))
	if !info.APA {
		fmt.Fprintln(w, field("Format", dimStyle.Render("not APA")))
		return
	}
	fmt.Fprintln(w, field("Format", okStyle.Render("APA (PS2)")))
	fmt.Fprintln(w, field("Checksum", strings.ToUpper(hex.EncodeToString(info.Checksum))))

	switch {
	case info.UsageErr != nil:
		fmt.Fprintln(w, field("Usage", critStyle.Render(info.UsageErr.Error())))
	case info.Usage != nil:
		u := info.Usage
		fmt.Fprintln(w, field("Used", usageStyle(u.UsedPercent()).Render(
			fmt.Sprintf("%s (%.1f%%)", hdd.FormatSize(u.Used), u.UsedPercent()))))
		fmt.Fprintln(w, field("Available", fmt.Sprintf("%s (%.1f%%)", hdd.FormatSize(u.Available), u.AvailablePercent())))
		fmt.Fprintln(w, field("Slice", hdd.FormatSize(u.Total)))
		if u.Anomalous() {
			fmt.Fprintln(w, field("", warnStyle.Render("used + available exceeds total")))
		}
	}
}
