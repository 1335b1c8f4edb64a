package hdd

import "testing"

func TestListDevicesOrder(t *testing.T) {
	prev := listPlatformDevices
	listPlatformDevices = func() ([]Device, error) {
		return []Device{
			{Target: `\\.\PHYSICALDRIVE0`, Model: "Samsung SSD", Index: 0},
			{Target: `\\.\PHYSICALDRIVE2`, Model: "WDC WD5000", Index: 2},
			{Target: `\\.\PHYSICALDRIVE1`, Model: "USB Bridge", Index: 1},
		}, nil
	}
	t.Cleanup(func() { listPlatformDevices = prev })

	devices, err := ListDevices()
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	for i, want := range []int{2, 1, 0} {
		if devices[i].Index != want {
			t.Fatalf("position %d holds index %d, want %d", i, devices[i].Index, want)
		}
	}
}
