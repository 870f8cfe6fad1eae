package ble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanParamsActive(t *testing.T) {
	// Passive scans never receive the scan response carrying the badge name.
	assert.Equal(t, uint8(1), scanParams.LEScanType)
	assert.Equal(t, scanParams.LEScanInterval, scanParams.LEScanWindow)
}
