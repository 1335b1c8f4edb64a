package hdd

import (
	"fmt"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize renders size in decimal (base 1000) units with at most two
// decimals, truncated rather than rounded and with trailing zeros dropped:
// 58812 is "58.81 KB", 131 is "131 B".
func FormatSize(size uint64) string {
	i := 0
	div := uint64(1)
	for size/div >= 1000 && i < len(sizeUnits)-1 {
		div *= 1000
		i++
	}
	whole := size / div
	hundredths := (size % div) * 100 / div
	s := fmt.Sprintf("%d.%02d", whole, hundredths)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	return s + " " + sizeUnits[i]
}
