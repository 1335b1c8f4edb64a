//go:build unix

package hdd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fileDevice backs a Handle with a unix block device or a disk image file.
type fileDevice struct {
	*os.File
}

func openPlatformDevice(devicePath string) (rawDevice, error) {
	f, err := os.OpenFile(devicePath, os.O_RDWR, 0)
	if errors.Is(err, fs.ErrPermission) {
		f, err = os.Open(devicePath)
	}
	if err != nil {
		return nil, err
	}
	return &fileDevice{File: f}, nil
}

func (d *fileDevice) driveGeometry() (Geometry, error) {
	size, err := deviceSize(d.File)
	if err != nil {
		return Geometry{}, err
	}
	return synthesizeGeometry(size), nil
}

// deviceSize returns the size of an image file or block device without
// moving the cursor.
func deviceSize(f *os.File) (uint64, error) {
	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if st.Mode().IsRegular() {
		return uint64(st.Size()), nil
	}

	const (
		BLKGETSIZE64       = 0x80081272 // linux
		DKIOCGETBLOCKSIZE  = 0x40046418 // darwin/BSD _IOR('d', 24, uint32)
		DKIOCGETBLOCKCOUNT = 0x40086419 // darwin/BSD _IOR('d', 25, uint64)
	)

	var sizeBytes uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), BLKGETSIZE64, uintptr(unsafe.Pointer(&sizeBytes)))
	if errno == 0 {
		return sizeBytes, nil
	}

	var blockSize uint32
	var blockCount uint64
	_, _, errno = unix.Syscall(unix.SYS_IOCTL, f.Fd(), DKIOCGETBLOCKSIZE, uintptr(unsafe.Pointer(&blockSize)))
	if errno != 0 {
		return 0, fmt.Errorf("cannot determine device size: %v", errno)
	}
	_, _, errno = unix.Syscall(unix.SYS_IOCTL, f.Fd(), DKIOCGETBLOCKCOUNT, uintptr(unsafe.Pointer(&blockCount)))
	if errno != 0 {
		return 0, fmt.Errorf("cannot get block count: %v", errno)
	}
	return uint64(blockSize) * blockCount, nil
}
