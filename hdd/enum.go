package hdd

import "sort"

// Device is one physical disk reported by the host.
type Device struct {
	Target string
	Model  string
	Index  int
}

// listPlatformDevices is replaced in tests.
var listPlatformDevices = platformDevices

// ListDevices returns the host's physical disks, highest index (most
// recently attached) first. It fails with ErrEnumerationUnsupported on
// platforms without a backend.
func ListDevices() ([]Device, error) {
	devices, err := listPlatformDevices()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(devices, func(i, j int) bool { return devices[i].Index > devices[j].Index })
	return devices, nil
}
