package hdd

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type fakeDevice struct {
	r         *bytes.Reader
	geom      Geometry
	geomErr   error
	geomCalls int
	reads     int
	shortBy   int
	seekSkew  int64
	closed    int
}

func newFakeDevice(img []byte) *fakeDevice {
	return &fakeDevice{
		r:    bytes.NewReader(img),
		geom: synthesizeGeometry(uint64(len(img))),
	}
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	f.reads++
	if f.shortBy > 0 && f.shortBy < len(p) {
		p = p[:len(p)-f.shortBy]
	}
	return f.r.Read(p)
}

func (f *fakeDevice) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.r.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	return pos + f.seekSkew, nil
}

func (f *fakeDevice) Close() error {
	f.closed++
	return nil
}

func (f *fakeDevice) driveGeometry() (Geometry, error) {
	f.geomCalls++
	return f.geom, f.geomErr
}

// useFakeDevices routes Open to devs by target for the duration of the test.
func useFakeDevices(t *testing.T, devs map[string]*fakeDevice) {
	t.Helper()
	prev := openRawDevice
	openRawDevice = func(path string) (rawDevice, error) {
		d, ok := devs[path]
		if !ok {
			return nil, errors.New("access denied")
		}
		if _, err := d.r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return d, nil
	}
	t.Cleanup(func() { openRawDevice = prev })
}

func openFake(t *testing.T, dev *fakeDevice) *Handle {
	t.Helper()
	useFakeDevices(t, map[string]*fakeDevice{`\\.\PhysicalDrive0`: dev})
	h, err := Open("0", "Fake Disk", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

// apaImage returns a size-byte image with a valid APA header.
func apaImage(size int) []byte {
	img := make([]byte, size)
	copy(img[4:8], "APA\x00")
	for i := 8; i < apaHeaderSize; i++ {
		img[i] = byte(i * 7)
	}
	sum := APAHeaderChecksum(img)
	copy(img[0:4], sum[:])
	return img
}
