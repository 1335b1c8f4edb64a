package hdd

import "errors"

var (
	// ErrDeviceOpen is returned when the OS refuses a handle to the device.
	ErrDeviceOpen = errors.New("failed to obtain device handle")
	// ErrSeek is returned when a seek fails or does not land exactly where requested.
	ErrSeek = errors.New("seek was not precise")
	// ErrAlignment is returned for reads that are not a whole number of sectors.
	ErrAlignment = errors.New("read size must be a multiple of the sector size")
	// ErrShortRead is returned when the device hands back fewer bytes than requested.
	ErrShortRead = errors.New("short read")
	// ErrGeometryUnavailable is returned when the geometry query cannot be issued or fails.
	ErrGeometryUnavailable = errors.New("disk geometry unavailable")
	// ErrEnumerationUnsupported is returned by ListDevices on platforms without a backend.
	ErrEnumerationUnsupported = errors.New("device enumeration not implemented")
	// ErrClosed is returned for I/O on a handle that has been closed.
	ErrClosed = errors.New("device handle is closed")
)
