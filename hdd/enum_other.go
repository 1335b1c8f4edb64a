//go:build !windows

package hdd

import (
	"fmt"
	"runtime"
)

func platformDevices() ([]Device, error) {
	return nil, fmt.Errorf("%w for %s", ErrEnumerationUnsupported, runtime.GOOS)
}
