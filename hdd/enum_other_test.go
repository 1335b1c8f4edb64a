//go:build !windows

package hdd

import (
	"errors"
	"testing"
)

func TestListDevicesUnsupported(t *testing.T) {
	if _, err := ListDevices(); !errors.Is(err, ErrEnumerationUnsupported) {
		t.Fatalf("expected ErrEnumerationUnsupported, got %v", err)
	}
}
