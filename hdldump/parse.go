package hdldump

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MalformedName stands in for fields of a game record hdl-dump could not
// report, which usually means the title was not installed properly.
const MalformedName = "[!]"

// DiskUsage is the slice usage reported by "hdl-dump map", in bytes.
type DiskUsage struct {
	Total     uint64
	Used      uint64
	Available uint64
}

// Anomalous reports whether used and available space add up to more than
// the total. hdl-dump has been seen doing this; it is not treated as fatal.
func (u DiskUsage) Anomalous() bool {
	return u.Used+u.Available > u.Total
}

// UsedPercent is Used as a percentage of Total.
func (u DiskUsage) UsedPercent() float64 { return percent(u.Used, u.Total) }

// AvailablePercent is Available as a percentage of Total.
func (u DiskUsage) AvailablePercent() float64 { return percent(u.Available, u.Total) }

func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// GameRecord is one installed title from "hdl-dump hdl_toc".
type GameRecord struct {
	MediaType string
	Size      uint64
	Flags     uint32
	DMA       string
	GameID    string
	Name      string

	// Malformed is set when the line was incomplete or a numeric field did
	// not parse; Raw keeps the original text.
	Malformed bool
	Raw       string
}

// DiscMetadata identifies a PS2 disc image, from "hdl-dump cdvd_info2".
type DiscMetadata struct {
	DualLayer bool
	MediaType string
	SizeKB    uint64
	Label     string
	GameID    string
}

// SizeBytes is SizeKB scaled by 1000.
func (d DiscMetadata) SizeBytes() uint64 { return d.SizeKB * 1000 }

// Progress is one progress line printed while injecting a game.
type Progress struct {
	Percent   float64
	Remaining string
	Speed     string
}

var (
	diskMapField  = regexp.MustCompile(`^([^:]+):\s*(\d+)\s*MB$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	discInfoLine  = regexp.MustCompile(`^(dual-layer )?(\S+) (\d+)KB "([^"]*)" "([^"]*)"`)
)

// ParseDiskMap reads the summary line at the end of "hdl-dump map" output:
//
//	Total slice size: 476940MB, used: 52416MB, available: 424524MB
func ParseDiskMap(lines []string) (DiskUsage, error) {
	line := lastNonBlank(lines)
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return DiskUsage{}, &ParseError{Command: "map", Line: line, Reason: "expected 3 fields"}
	}
	var vals [3]uint64
	for i, f := range fields {
		m := diskMapField.FindStringSubmatch(strings.TrimSpace(f))
		if m == nil {
			return DiskUsage{}, &ParseError{Command: "map", Line: line, Reason: "bad field " + strconv.Quote(f)}
		}
		v, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			return DiskUsage{}, &ParseError{Command: "map", Line: line, Reason: err.Error()}
		}
		vals[i] = v * 1000 * 1000
	}
	return DiskUsage{Total: vals[0], Used: vals[1], Available: vals[2]}, nil
}

// ParseGameLine splits one hdl_toc row into media type, size, flags, DMA
// mode, game ID and name. It never fails: missing trailing fields are
// filled with MalformedName and the record is flagged.
func ParseGameLine(line string) GameRecord {
	rec := GameRecord{Raw: line}
	fields := strings.SplitN(whitespaceRun.ReplaceAllString(strings.TrimSpace(line), " "), " ", 6)
	for len(fields) < 6 {
		fields = append(fields, MalformedName)
		rec.Malformed = true
	}
	rec.MediaType, rec.DMA, rec.GameID, rec.Name = fields[0], fields[3], fields[4], fields[5]

	size, err := strconv.ParseUint(strings.TrimSuffix(fields[1], "KB"), 10, 64)
	if err != nil {
		rec.Malformed = true
		rec.Name = MalformedName
	}
	rec.Size = size * 1000

	flags, err := parseFlags(fields[2])
	if err != nil {
		rec.Malformed = true
		rec.Name = MalformedName
	}
	rec.Flags = flags
	return rec
}

func parseFlags(s string) (uint32, error) {
	if h, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		v, err := strconv.ParseUint(h, 16, 32)
		return uint32(v), err
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		v, err = strconv.ParseUint(s, 16, 32)
	}
	return uint32(v), err
}

// ParseGameList parses "hdl-dump hdl_toc" output. The first (column header)
// and last (totals) lines are dropped; the result is sorted by game ID.
func ParseGameList(lines []string) []GameRecord {
	if len(lines) < 3 {
		return nil
	}
	var games []GameRecord
	for _, line := range lines[1 : len(lines)-1] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		games = append(games, ParseGameLine(line))
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].GameID < games[j].GameID })
	return games
}

// ParseDiscInfo matches a "hdl-dump cdvd_info2" report such as
//
//	dual-layer DVD 7830336KB "SLUS_212.05" "SLUS_212.05"
//
// ok is false when line is not a PS2 disc report.
func ParseDiscInfo(line string) (meta DiscMetadata, ok bool) {
	m := discInfoLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return DiscMetadata{}, false
	}
	size, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return DiscMetadata{}, false
	}
	return DiscMetadata{
		DualLayer: m[1] != "",
		MediaType: m[2],
		SizeKB:    size,
		Label:     m[4],
		GameID:    m[5],
	}, true
}

// ParseProgress reads an injection progress line: "NN.NN%" optionally
// followed by remaining time and speed, comma separated.
func ParseProgress(line string) (Progress, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return Progress{}, &ParseError{Command: "inject", Line: line, Reason: "expected 1 or 3 fields"}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	pct, _, found := strings.Cut(parts[0], "%")
	if !found {
		return Progress{}, &ParseError{Command: "inject", Line: line, Reason: "no percentage"}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
	if err != nil {
		return Progress{}, &ParseError{Command: "inject", Line: line, Reason: err.Error()}
	}
	p := Progress{Percent: v}
	if len(parts) == 3 {
		p.Remaining, p.Speed = parts[1], parts[2]
	}
	return p, nil
}

func lastNonBlank(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}
