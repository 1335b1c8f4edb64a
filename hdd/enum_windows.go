//go:build windows

package hdd

import (
	"fmt"
	"strings"

	"github.com/yusufpapurcu/wmi"
)

type win32DiskDrive struct {
	DeviceID string
	Model    string
	Index    uint32
}

func platformDevices() ([]Device, error) {
	var drives []win32DiskDrive
	if err := wmi.Query("SELECT DeviceID, Model, Index FROM Win32_DiskDrive", &drives); err != nil {
		return nil, fmt.Errorf("query Win32_DiskDrive: %w", err)
	}
	out := make([]Device, 0, len(drives))
	for _, d := range drives {
		out = append(out, Device{
			Target: strings.TrimSpace(d.DeviceID),
			Model:  strings.TrimSpace(d.Model),
			Index:  int(d.Index),
		})
	}
	return out, nil
}
