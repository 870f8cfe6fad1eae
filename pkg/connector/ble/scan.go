// Package ble discovers nearby badges from their BLE advertisements so that the MAC suffix does
// not have to be copied from the badge screen. It never connects to a device.
package ble

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/go-ble/ble"

	"github.com/openeink/eink-activate/internal/log"
	"github.com/openeink/eink-activate/pkg/activation"
)

var ErrUnsupportedPlatform = errors.New("BLE scanning is not supported on this platform")

// Entry is one advertising device.
type Entry struct {
	Address   string
	LocalName string
	RSSI      int
	// Suffix is the normalized MAC suffix, empty when the platform hides the address.
	Suffix string
}

// advertisement is the part of ble.Advertisement the scanner reads.
type advertisement interface {
	LocalName() string
	RSSI() int
	Addr() ble.Addr
}

type collector struct {
	prefix string

	mu      sync.Mutex
	entries map[string]Entry
}

func newCollector(prefix string) *collector {
	return &collector{prefix: prefix, entries: make(map[string]Entry)}
}

func (c *collector) handle(a advertisement) {
	name := a.LocalName()
	if c.prefix != "" && !strings.HasPrefix(name, c.prefix) {
		return
	}
	address := a.Addr().String()
	entry := Entry{Address: address, LocalName: name, RSSI: a.RSSI()}
	if suffix, err := activation.FromAddress(address); err == nil {
		entry.Suffix = suffix
	} else {
		log.Debug("No MAC suffix for %s: %s", address, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[address]; ok {
		// Scan responses can carry the name when the first advertisement did not.
		if entry.LocalName == "" {
			entry.LocalName = prev.LocalName
		}
	} else {
		log.Debug("Found %s %q rssi %d", address, name, entry.RSSI)
	}
	c.entries[address] = entry
}

// results returns the entries ordered by signal strength, strongest first.
func (c *collector) results() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RSSI != entries[j].RSSI {
			return entries[i].RSSI > entries[j].RSSI
		}
		return entries[i].Address < entries[j].Address
	})
	return entries
}

// Scan listens for advertisements until ctx is done and returns every device whose local name
// starts with prefix. An empty prefix matches all devices.
func Scan(ctx context.Context, prefix string) ([]Entry, error) {
	device, err := newDevice()
	if err != nil {
		log.Error("Failed to open BLE device: %s", err)
		return nil, err
	}
	defer func() {
		if err := device.Stop(); err != nil {
			log.Warning("Failed to stop BLE device: %s", err)
		}
	}()

	c := newCollector(prefix)
	err = device.Scan(ctx, true, func(a ble.Advertisement) { c.handle(a) })
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return c.results(), nil
}
