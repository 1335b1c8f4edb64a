//go:build windows

package hdd

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	IOCTL_DISK_GET_DRIVE_GEOMETRY_EX = 0x000700A0
	MAXIMUM_ALLOWED                  = 0x02000000
)

// windowsDevice keeps the raw handle next to the *os.File wrapping it so
// DeviceIoControl can be issued on the same handle used for reads.
type windowsDevice struct {
	*os.File
	handle windows.Handle
}

// openPlatformDevice opens \\.\PhysicalDriveN with share-read/share-write so
// hdl-dump can use the disk while we hold the handle.
func openPlatformDevice(devicePath string) (rawDevice, error) {
	p, err := windows.UTF16PtrFromString(devicePath)
	if err != nil {
		return nil, err
	}
	handle, err := windows.CreateFile(
		p,
		MAXIMUM_ALLOWED,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("%w (ensure you are running as administrator)", err)
	}

	file := os.NewFile(uintptr(handle), devicePath)
	if file == nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("cannot create file from handle")
	}
	return &windowsDevice{File: file, handle: handle}, nil
}

func (d *windowsDevice) driveGeometry() (Geometry, error) {
	// DISK_GEOMETRY_EX is 40 bytes with padding; only the first 32 are used.
	var out [10]uint32
	var bytesReturned uint32
	err := windows.DeviceIoControl(
		d.handle,
		IOCTL_DISK_GET_DRIVE_GEOMETRY_EX,
		nil, 0,
		(*byte)(unsafe.Pointer(&out[0])), uint32(unsafe.Sizeof(out)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		return Geometry{}, fmt.Errorf("IOCTL_DISK_GET_DRIVE_GEOMETRY_EX: %w", err)
	}
	if bytesReturned < 32 {
		return Geometry{}, fmt.Errorf("IOCTL_DISK_GET_DRIVE_GEOMETRY_EX returned %d bytes", bytesReturned)
	}
	return geometryFromWords(out[:8]), nil
}
