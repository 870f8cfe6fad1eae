package ble

import (
	"testing"

	"github.com/go-ble/ble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAddr string

func (a fakeAddr) String() string { return string(a) }

type fakeAdvertisement struct {
	name string
	rssi int
	addr string
}

func (f fakeAdvertisement) LocalName() string { return f.name }
func (f fakeAdvertisement) RSSI() int         { return f.rssi }
func (f fakeAdvertisement) Addr() ble.Addr    { return fakeAddr(f.addr) }

func TestCollectorFiltersByPrefix(t *testing.T) {
	c := newCollector("HM213")
	c.handle(fakeAdvertisement{name: "HM213_A25H01", rssi: -60, addr: "c0:ff:ee:68:2b:fe"})
	c.handle(fakeAdvertisement{name: "Headphones", rssi: -40, addr: "11:22:33:44:55:66"})

	entries := c.results()
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Address:   "c0:ff:ee:68:2b:fe",
		LocalName: "HM213_A25H01",
		RSSI:      -60,
		Suffix:    "682BFE",
	}, entries[0])
}

func TestCollectorSortsAndDeduplicates(t *testing.T) {
	c := newCollector("")
	c.handle(fakeAdvertisement{name: "HM213_B25L01", rssi: -80, addr: "aa:aa:aa:67:a7:8c"})
	c.handle(fakeAdvertisement{name: "HM213_A25H01", rssi: -70, addr: "c0:ff:ee:68:2b:fe"})
	c.handle(fakeAdvertisement{name: "", rssi: -50, addr: "aa:aa:aa:67:a7:8c"})

	entries := c.results()
	require.Len(t, entries, 2)
	assert.Equal(t, "aa:aa:aa:67:a7:8c", entries[0].Address)
	assert.Equal(t, -50, entries[0].RSSI)
	assert.Equal(t, "HM213_B25L01", entries[0].LocalName)
	assert.Equal(t, "c0:ff:ee:68:2b:fe", entries[1].Address)
}

func TestCollectorHiddenAddress(t *testing.T) {
	c := newCollector("")
	c.handle(fakeAdvertisement{name: "HM213_A25H01", rssi: -65, addr: "5b9e4a36-1c4d-4c8f-9d3e-0a1b2c3d4e5f"})

	entries := c.results()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Suffix)
}
