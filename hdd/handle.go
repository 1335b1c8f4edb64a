// Package hdd opens raw disk devices, reads their geometry and decides whether
// they carry a PlayStation 2 APA partition table.
//
// A Handle is not safe for concurrent use. Distinct handles (distinct devices)
// may be used from different goroutines without coordination.
package hdd

import (
	"errors"
	"fmt"
	"io"

	"hdlg/logger"
)

// SectorSize is the read granularity enforced on raw device handles.
const SectorSize = 512

// rawDevice is the OS-level device behind a Handle.
type rawDevice interface {
	io.ReadSeekCloser
	driveGeometry() (Geometry, error)
}

// openRawDevice is replaced in tests.
var openRawDevice = openPlatformDevice

// Handle owns one open raw block device. It must be closed on every path;
// a leaked handle keeps other processes (hdl-dump included) off the disk.
type Handle struct {
	Target string
	Model  string

	dev rawDevice
	log logger.Logger

	geometry *Geometry
	apa      *apaState
}

// Open normalizes target (see NormalizeTarget) and opens it for read/write
// with shared read/write access. log may be nil.
func Open(target, model string, log logger.Logger) (*Handle, error) {
	h := &Handle{
		Target: NormalizeTarget(target),
		Model:  model,
		log:    logger.OrNop(log),
	}
	if err := h.open(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handle) open() error {
	dev, err := openRawDevice(h.Target)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrDeviceOpen, h.Target, err)
	}
	h.dev = dev
	h.log.Debug("device opened", "target", h.Target)
	return nil
}

// Reopen closes and reopens the device, discarding cached geometry and
// partition verdicts.
func (h *Handle) Reopen() error {
	if err := h.Close(); err != nil {
		return err
	}
	h.geometry = nil
	h.apa = nil
	return h.open()
}

// Close releases the OS handle. It is safe to call more than once.
func (h *Handle) Close() error {
	if h == nil || h.dev == nil {
		return nil
	}
	err := h.dev.Close()
	h.dev = nil
	h.log.Debug("device closed", "target", h.Target)
	return err
}

// ToolTarget is the name hdl-dump uses for this device.
func (h *Handle) ToolTarget() string {
	return ToolTarget(h.Target)
}

// Seek moves the read cursor. For io.SeekStart the resulting position must
// equal offset exactly, otherwise ErrSeek is returned.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if h.dev == nil {
		return 0, fmt.Errorf("%w: %w", ErrSeek, ErrClosed)
	}
	pos, err := h.dev.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("%w: %s to %d: %w", ErrSeek, h.Target, offset, err)
	}
	if whence == io.SeekStart && pos != offset {
		return pos, fmt.Errorf("%w: %s landed at %d, wanted %d", ErrSeek, h.Target, pos, offset)
	}
	return pos, nil
}

// Tell reports the current cursor position.
func (h *Handle) Tell() (int64, error) {
	return h.Seek(0, io.SeekCurrent)
}

// Read reads exactly size bytes from the cursor. size must be a positive
// multiple of SectorSize; a short read is reported, not retried.
func (h *Handle) Read(size int) ([]byte, error) {
	if size <= 0 || size%SectorSize != 0 {
		return nil, fmt.Errorf("%w: %d is not a multiple of %d", ErrAlignment, size, SectorSize)
	}
	if h.dev == nil {
		return nil, ErrClosed
	}
	buf := make([]byte, size)
	n, err := h.dev.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", h.Target, err)
	}
	if n < size {
		return nil, fmt.Errorf("%w: read %d less bytes than requested from %s", ErrShortRead, size-n, h.Target)
	}
	return buf, nil
}

// Geometry returns the device geometry, querying the OS on first use only.
func (h *Handle) Geometry() (Geometry, error) {
	if h.geometry != nil {
		return *h.geometry, nil
	}
	if h.dev == nil {
		return Geometry{}, fmt.Errorf("%w: %s is not open", ErrGeometryUnavailable, h.Target)
	}
	g, err := h.dev.driveGeometry()
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %s: %w", ErrGeometryUnavailable, h.Target, err)
	}
	h.geometry = &g
	h.log.Debug("geometry", "target", h.Target, "bytes_per_sector", g.BytesPerSector, "size", g.DiskSize())
	return g, nil
}

// DiskSize is the full disk size in bytes derived from Geometry.
func (h *Handle) DiskSize() (uint64, error) {
	g, err := h.Geometry()
	if err != nil {
		return 0, err
	}
	return g.DiskSize(), nil
}
