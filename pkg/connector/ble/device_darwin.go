package ble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

// CoreBluetooth reports a per-host UUID instead of the MAC address, so entries found on macOS
// carry no suffix.
func newDevice() (ble.Device, error) {
	device, err := darwin.NewDevice()
	if err != nil {
		return nil, err
	}
	return device, nil
}
