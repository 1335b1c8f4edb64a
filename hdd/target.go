package hdd

import (
	"regexp"
	"strings"
)

const rawPrefix = `\\.\`

var (
	bareIndex     = regexp.MustCompile(`^\d+$`)
	physicalDrive = regexp.MustCompile(`(?i)^(?:\\\\\.\\)?physicaldrive(\d+)$`)
)

// NormalizeTarget maps "N" and "PhysicalDriveN" to the raw device form
// \\.\PhysicalDriveN. Anything else (already-raw paths, /dev nodes, image
// files) is returned unchanged apart from surrounding whitespace.
func NormalizeTarget(target string) string {
	t := strings.TrimSpace(target)
	switch {
	case bareIndex.MatchString(t):
		return rawPrefix + "PhysicalDrive" + t
	case strings.HasPrefix(t, rawPrefix):
		return t
	case physicalDrive.MatchString(t):
		return rawPrefix + t
	}
	return t
}

// ToolTarget returns the name hdl-dump uses for target: hddN: for physical
// drives, the path itself otherwise.
func ToolTarget(target string) string {
	if m := physicalDrive.FindStringSubmatch(NormalizeTarget(target)); m != nil {
		return "hdd" + m[1] + ":"
	}
	return target
}

// DriveLabel is the short display name for target, e.g. HDD2.
func DriveLabel(target string) string {
	if m := physicalDrive.FindStringSubmatch(NormalizeTarget(target)); m != nil {
		return "HDD" + m[1]
	}
	return target
}
