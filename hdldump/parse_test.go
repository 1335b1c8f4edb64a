package hdldump

import (
	"errors"
	"testing"
)

func TestParseDiskMap(t *testing.T) {
	lines := []string{
		"hdd1: 476940MB",
		"0x0001 128MB __mbr",
		"",
		"Total slice size: 476940MB, used: 52416MB, available: 424524MB",
		"",
	}
	u, err := ParseDiskMap(lines)
	if err != nil {
		t.Fatalf("ParseDiskMap: %v", err)
	}
	want := DiskUsage{Total: 476940000000, Used: 52416000000, Available: 424524000000}
	if u != want {
		t.Fatalf("got %+v, want %+v", u, want)
	}
	if u.Anomalous() {
		t.Fatal("consistent usage reported as anomalous")
	}
}

func TestParseDiskMapErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"two fields", []string{"Total slice size: 10MB, used: 5MB"}},
		{"four fields", []string{"a: 1MB, b: 2MB, c: 3MB, d: 4MB"}},
		{"no unit", []string{"Total slice size: 10, used: 5MB, available: 5MB"}},
		{"not numeric", []string{"Total slice size: xMB, used: 5MB, available: 5MB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDiskMap(tt.lines)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("err = %v, want ErrParse", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Command != "map" {
				t.Fatalf("err = %#v, want *ParseError for map", err)
			}
		})
	}
}

func TestDiskUsagePercentages(t *testing.T) {
	u := DiskUsage{Total: 200, Used: 50, Available: 150}
	if got := u.UsedPercent(); got != 25 {
		t.Fatalf("UsedPercent = %v", got)
	}
	if got := u.AvailablePercent(); got != 75 {
		t.Fatalf("AvailablePercent = %v", got)
	}
	if got := (DiskUsage{}).UsedPercent(); got != 0 {
		t.Fatalf("UsedPercent of empty = %v", got)
	}
	if !(DiskUsage{Total: 10, Used: 6, Available: 6}).Anomalous() {
		t.Fatal("over-committed usage not flagged")
	}
}

func TestParseGameLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want GameRecord
	}{
		{
			name: "complete",
			line: "DVD   4194304KB  0x00  *u4   SLUS_203.12  Some  Game  Title",
			want: GameRecord{MediaType: "DVD", Size: 4194304000, Flags: 0, DMA: "*u4", GameID: "SLUS_203.12", Name: "Some Game Title"},
		},
		{
			name: "decimal flags",
			line: "CD 650000KB 3 *u2 SCES_500.00 Name",
			want: GameRecord{MediaType: "CD", Size: 650000000, Flags: 3, DMA: "*u2", GameID: "SCES_500.00", Name: "Name"},
		},
		{
			name: "hex flags without prefix",
			line: "CD 100KB 1f *u2 SCES_500.01 Name",
			want: GameRecord{MediaType: "CD", Size: 100000, Flags: 0x1f, DMA: "*u2", GameID: "SCES_500.01", Name: "Name"},
		},
		{
			name: "missing name",
			line: "DVD 100KB 0x00 *u4 SLUS_000.01",
			want: GameRecord{MediaType: "DVD", Size: 100000, DMA: "*u4", GameID: "SLUS_000.01", Name: MalformedName, Malformed: true},
		},
		{
			name: "missing id and name",
			line: "DVD 100KB 0x00 *u4",
			want: GameRecord{MediaType: "DVD", Size: 100000, DMA: "*u4", GameID: MalformedName, Name: MalformedName, Malformed: true},
		},
		{
			name: "bad size",
			line: "DVD ?KB 0x00 *u4 SLUS_000.02 Name",
			want: GameRecord{MediaType: "DVD", DMA: "*u4", GameID: "SLUS_000.02", Name: MalformedName, Malformed: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGameLine(tt.line)
			tt.want.Raw = tt.line
			if got != tt.want {
				t.Fatalf("got  %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestParseGameListDropsFramingAndSorts(t *testing.T) {
	lines := []string{
		"type size flags dma startup name",
		"DVD 100KB 0x00 *u4 SLUS_300.00 Zeta",
		"",
		"CD 200KB 0x00 *u2 SCES_100.00 Alpha",
		"DVD 300KB 0x00 *u4 SLUS_200.00",
		"total 600KB, used 600KB, available 0KB",
	}
	games := ParseGameList(lines)
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}
	ids := []string{games[0].GameID, games[1].GameID, games[2].GameID}
	want := []string{"SCES_100.00", "SLUS_200.00", "SLUS_300.00"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
	if !games[1].Malformed || games[1].Name != MalformedName {
		t.Fatalf("incomplete record not flagged: %+v", games[1])
	}
	if ParseGameList(lines[:2]) != nil {
		t.Fatal("framing-only output should yield no games")
	}
}

func TestParseDiscInfo(t *testing.T) {
	tests := []struct {
		line string
		want DiscMetadata
		ok   bool
	}{
		{
			line: `dual-layer DVD 7830336KB "SLUS_212.05" "SLUS_212.05"`,
			want: DiscMetadata{DualLayer: true, MediaType: "DVD", SizeKB: 7830336, Label: "SLUS_212.05", GameID: "SLUS_212.05"},
			ok:   true,
		},
		{
			line: `CD 524288KB "MY DISC" "SCES_500.51"`,
			want: DiscMetadata{MediaType: "CD", SizeKB: 524288, Label: "MY DISC", GameID: "SCES_500.51"},
			ok:   true,
		},
		{line: "not a ps2 disc"},
		{line: `DVD 12KB "unterminated`},
		{line: ""},
	}
	for _, tt := range tests {
		got, ok := ParseDiscInfo(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseDiscInfo(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
	if got := (DiscMetadata{SizeKB: 3}).SizeBytes(); got != 3000 {
		t.Fatalf("SizeBytes = %d", got)
	}
}

func TestParseProgress(t *testing.T) {
	p, err := ParseProgress("45.20%, 3 min remaining, 12.5 MB/sec")
	if err != nil {
		t.Fatalf("ParseProgress: %v", err)
	}
	if p.Percent != 45.2 || p.Remaining != "3 min remaining" || p.Speed != "12.5 MB/sec" {
		t.Fatalf("got %+v", p)
	}

	p, err = ParseProgress("100%")
	if err != nil || p.Percent != 100 || p.Remaining != "" || p.Speed != "" {
		t.Fatalf("single field: %+v, %v", p, err)
	}

	for _, bad := range []string{"", "a, b", "no percent", "x%, 1, 2", "1%, 2, 3, 4"} {
		if _, err := ParseProgress(bad); !errors.Is(err, ErrParse) {
			t.Fatalf("ParseProgress(%q) err = %v, want ErrParse", bad, err)
		}
	}
}

func TestInstallLabel(t *testing.T) {
	tests := map[string]string{
		"/isos/metal gear solid 3.iso": "Metal Gear Solid 3",
		"GRAN TURISMO.bin":             "Gran Turismo",
		"okami":                        "Okami",
	}
	for in, want := range tests {
		if got := InstallLabel(in); got != want {
			t.Fatalf("InstallLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
