package hdldump

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Map returns the usage summary of the APA slice on target (e.g. "hdd1:").
func (t *Tool) Map(ctx context.Context, target string) (DiskUsage, error) {
	lines, err := t.RunCaptured(ctx, "map", target)
	if err != nil {
		return DiskUsage{}, err
	}
	return ParseDiskMap(lines)
}

// Games lists the titles installed on target, sorted by game ID.
func (t *Tool) Games(ctx context.Context, target string) ([]GameRecord, error) {
	lines, err := t.RunCaptured(ctx, "hdl_toc", target)
	if err != nil {
		return nil, err
	}
	games := ParseGameList(lines)
	for _, g := range games {
		if g.Malformed {
			t.log.Warn("improperly installed game", "target", target, "line", g.Raw)
		}
	}
	return games, nil
}

// DiscInfo identifies the disc image at path. ok is false when hdl-dump
// ran but did not report a PS2 disc.
func (t *Tool) DiscInfo(ctx context.Context, path string) (meta DiscMetadata, ok bool, err error) {
	lines, err := t.RunCaptured(ctx, "cdvd_info2", path)
	if err != nil {
		return DiscMetadata{}, false, err
	}
	for _, line := range lines {
		if meta, ok := ParseDiscInfo(line); ok {
			return meta, true, nil
		}
	}
	return DiscMetadata{}, false, nil
}

// Inject starts installing the image at path onto target and streams the
// progress lines hdl-dump prints.
func (t *Tool) Inject(ctx context.Context, target string, disc DiscMetadata, label, path string) (*Stream, error) {
	return t.RunStreaming(ctx,
		"inject_"+strings.ToLower(disc.MediaType),
		target, label, path, disc.GameID,
	)
}

// InstallLabel is the partition label a title is installed under: the image
// file name without its extension, in title case.
func InstallLabel(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return cases.Title(language.Und).String(stem)
}
