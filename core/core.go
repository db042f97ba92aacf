// Package core implements physical device selection and queue family
// negotiation for a Vulkan-like graphics driver. It holds no driver state
// of its own: candidates are produced by a Driver collaborator and all
// decisions are made over the immutable snapshots it returns, so the
// whole selection procedure can run against a fake driver in tests.
package core

import (
	"fmt"
	"strings"
)

// QueueFlags is a bitset of the operations a queue family can execute.
type QueueFlags uint32

// Queue capability bits.
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

var queueFlagNames = []struct {
	flag QueueFlags
	name string
}{
	{QueueGraphics, "graphics"},
	{QueueCompute, "compute"},
	{QueueTransfer, "transfer"},
	{QueueSparseBinding, "sparse"},
}

// Has reports whether every bit of other is set in f.
func (f QueueFlags) Has(other QueueFlags) bool {
	return f&other == other
}

// Intersects reports whether at least one bit of other is set in f.
func (f QueueFlags) Intersects(other QueueFlags) bool {
	return f&other != 0
}

func (f QueueFlags) String() string {
	var parts []string
	for _, qf := range queueFlagNames {
		if f&qf.flag != 0 {
			parts = append(parts, qf.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseQueueFlags parses a comma separated list of queue capability
// names, e.g. "graphics,transfer". An empty string parses to zero flags.
func ParseQueueFlags(s string) (QueueFlags, error) {
	var flags QueueFlags
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
Token:
	for _, token := range strings.Split(s, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		for _, qf := range queueFlagNames {
			if token == qf.name {
				flags |= qf.flag
				continue Token
			}
		}
		return 0, fmt.Errorf("unknown queue capability %q", token)
	}
	return flags, nil
}

// DeviceClass describes the kind of hardware a candidate device is.
type DeviceClass int

// Device classes, in default order of preference.
const (
	DeviceDiscrete DeviceClass = iota
	DeviceIntegrated
	DeviceVirtual
	DeviceCPU
	DeviceOther
)

func (c DeviceClass) String() string {
	switch c {
	case DeviceDiscrete:
		return "discrete"
	case DeviceIntegrated:
		return "integrated"
	case DeviceVirtual:
		return "virtual"
	case DeviceCPU:
		return "cpu"
	default:
		return "other"
	}
}

// DefaultPreference ranks discrete hardware over integrated, and both
// over virtualised or CPU fallbacks.
var DefaultPreference = []DeviceClass{
	DeviceDiscrete,
	DeviceIntegrated,
	DeviceVirtual,
	DeviceCPU,
	DeviceOther,
}

// QueueFamily describes one queue family reported by a device.
type QueueFamily struct {
	Index int
	Flags QueueFlags
	Count int
}

// Candidate is an immutable snapshot of one physical device, taken at
// enumeration time. Handle carries the driver's opaque device handle and
// is only meaningful to the driver that produced the candidate.
type Candidate struct {
	Handle interface{} `json:"-"`

	Name          string
	Class         DeviceClass
	VendorID      uint32
	DeviceID      uint32
	DriverVersion uint32
	Memory        uint64
	Extensions    []string
	Layers        []string
	Families      []QueueFamily
}

// HasExtensions reports whether the candidate supports every named
// extension.
func (c *Candidate) HasExtensions(names []string) bool {
	for _, name := range names {
		found := false
		for _, have := range c.Extensions {
			if have == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Driver is the consumed platform interface that produces device
// candidates. The Vulkan-backed implementation lives in the vulkan
// package; tests substitute fakes.
type Driver interface {
	Devices() ([]Candidate, error)
}

// Surface is the presentation collaborator. It answers whether a given
// queue family of a candidate can present to the surface it represents.
type Surface interface {
	PresentSupported(c *Candidate, family QueueFamily) bool
}
