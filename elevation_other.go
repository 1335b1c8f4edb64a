//go:build !windows

package main

import "hdlg/logger"

func warnIfNotElevated(logger.Logger) {}
