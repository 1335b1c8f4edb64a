package hdd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	apaHeaderSize = 1024
	apaMagic      = "APA\x00"
)

type apaState struct {
	partitioned bool
	checksum    []byte
}

// APAHeaderChecksum computes the checksum of a 1024-byte APA header: the sum
// of every little-endian uint32 from offset 4 to the end (the magic included),
// accumulated in 64 bits, truncated to its low four bytes.
func APAHeaderChecksum(header []byte) [4]byte {
	var sum uint64
	for off := 4; off+4 <= apaHeaderSize && off+4 <= len(header); off += 4 {
		sum += uint64(binary.LittleEndian.Uint32(header[off:]))
	}
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], uint32(sum))
	return out
}

// IsAPAHeader reports whether header carries the APA magic and a stored
// checksum matching its contents.
func IsAPAHeader(header []byte) bool {
	if len(header) < apaHeaderSize {
		return false
	}
	if string(header[4:8]) != apaMagic {
		return false
	}
	sum := APAHeaderChecksum(header)
	return bytes.Equal(header[0:4], sum[:])
}

// IsAPAPartitioned checks the first partition header of the device. The
// verdict is cached until the handle is reopened; the cursor is left where
// it was found.
func (h *Handle) IsAPAPartitioned() (bool, error) {
	if h.apa != nil {
		return h.apa.partitioned, nil
	}
	header, err := h.readHeader(apaHeaderSize)
	if err != nil {
		return false, fmt.Errorf("check APA partition on %s: %w", h.Target, err)
	}
	h.apa = &apaState{partitioned: IsAPAHeader(header)}
	h.log.Debug("apa check", "target", h.Target, "partitioned", h.apa.partitioned)
	return h.apa.partitioned, nil
}

// APAChecksum returns the stored header checksum, or nil when the device is
// not APA partitioned.
func (h *Handle) APAChecksum() ([]byte, error) {
	ok, err := h.IsAPAPartitioned()
	if err != nil || !ok {
		return nil, err
	}
	if h.apa.checksum != nil {
		return h.apa.checksum, nil
	}
	sector, err := h.readHeader(SectorSize)
	if err != nil {
		return nil, fmt.Errorf("read APA checksum on %s: %w", h.Target, err)
	}
	h.apa.checksum = append([]byte(nil), sector[0:4]...)
	return h.apa.checksum, nil
}

// readHeader reads size bytes from offset 0 and restores the cursor afterwards.
func (h *Handle) readHeader(size int) (data []byte, err error) {
	old, err := h.Tell()
	if err != nil {
		return nil, err
	}
	defer func() {
		if _, serr := h.Seek(old, io.SeekStart); serr != nil && err == nil {
			data, err = nil, serr
		}
	}()
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return h.Read(size)
}
