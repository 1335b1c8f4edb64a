package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"hdlg/hdd"
	"hdlg/hdldump"
)

func newISOCmd(a *app) *cobra.Command {
	isoCmd := &cobra.Command{
		Use:   "iso",
		Short: "Disc image utilities",
	}
	infoCmd := &cobra.Command{
		Use:   "info <image>...",
		Short: "Show the game ID, label and size hdl-dump reads from disc images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := a.tool()
			if err != nil {
				return err
			}
			for _, image := range args {
				disc, ok, err := tool.DiscInfo(cmd.Context(), image)
				renderDisc(cmd.OutOrStdout(), image, disc, ok, err)
			}
			return nil
		},
	}
	isoCmd.AddCommand(infoCmd)
	return isoCmd
}

func renderDisc(w io.Writer, image string, disc hdldump.DiscMetadata, ok bool, err error) {
	fmt.Fprintln(w, titleStyle.Render(filepath.Base(image)))
	switch {
	case err != nil:
		fmt.Fprintln(w, field("Error", critStyle.Render(err.Error())))
		return
	case !ok:
		fmt.Fprintln(w, field("Format", dimStyle.Render("not a PS2 disc image")))
		return
	}
	media := disc.MediaType
	if disc.DualLayer {
		media = "dual-layer " + media
	}
	fmt.Fprintln(w, field("Game ID", disc.GameID))
	fmt.Fprintln(w, field("Label", disc.Label))
	fmt.Fprintln(w, field("Media", media))
	fmt.Fprintln(w, field("Size", hdd.FormatSize(disc.SizeBytes())))
	fmt.Fprintln(w, field("Install as", hdldump.InstallLabel(image)))
}
