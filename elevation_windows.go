//go:build windows

package main

import (
	"golang.org/x/sys/windows"

	"hdlg/logger"
)

// warnIfNotElevated logs a warning when the process token lacks
// administrator rights; raw PhysicalDrive handles cannot be opened without.
func warnIfNotElevated(log logger.Logger) {
	if !windows.GetCurrentProcessToken().IsElevated() {
		log.Warn("not running as administrator; physical drives will fail to open")
	}
}
