package ble

import (
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"
)

// Badges advertise slowly while idle, so the window covers the whole interval.
var scanParams = cmd.LESetScanParameters{
	LEScanType:           1,    // Active scanning, needed for the local name
	LEScanInterval:       0x10, // 10ms
	LEScanWindow:         0x10, // 10ms
	OwnAddressType:       0,    // Static
	ScanningFilterPolicy: 0,    // Basic unfiltered
}

func newDevice() (ble.Device, error) {
	device, err := linux.NewDevice(ble.OptDeviceID(0), ble.OptScanParams(scanParams))
	if err != nil {
		return nil, err
	}
	return device, nil
}
