package core

import (
	"fmt"
	"strings"
)

// DriverLoadError means no usable graphics driver could be loaded. The
// process cannot continue; there is no retry path.
type DriverLoadError struct {
	Err error
}

func (e *DriverLoadError) Error() string {
	return "no usable graphics driver: " + e.Err.Error()
}

func (e *DriverLoadError) Unwrap() error { return e.Err }

// EnumerationError means the driver loaded but the device enumeration
// call itself failed. Fatal for the same reason as DriverLoadError.
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string {
	return "device enumeration failed: " + e.Err.Error()
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// NoSuitableDeviceError means every enumerated candidate was rejected by
// the selection criteria. The counters record which criterion rejected
// how many candidates so the operator can tell what the environment
// lacks.
type NoSuitableDeviceError struct {
	Considered        int
	MissingExtensions int
	MissingQueues     int
	MissingPresent    int
}

func (e *NoSuitableDeviceError) Error() string {
	if e.Considered == 0 {
		return "no suitable device: no devices enumerated"
	}
	var reasons []string
	if e.MissingExtensions > 0 {
		reasons = append(reasons, fmt.Sprintf("%d lack required extensions", e.MissingExtensions))
	}
	if e.MissingQueues > 0 {
		reasons = append(reasons, fmt.Sprintf("%d lack required queue capabilities", e.MissingQueues))
	}
	if e.MissingPresent > 0 {
		reasons = append(reasons, fmt.Sprintf("%d cannot present to the surface", e.MissingPresent))
	}
	msg := fmt.Sprintf("no suitable device among %d candidates", e.Considered)
	if len(reasons) > 0 {
		msg += " (" + strings.Join(reasons, ", ") + ")"
	}
	return msg
}

// NoQueueFamilyError means the chosen device has no queue family whose
// capabilities fully contain the required flags.
type NoQueueFamilyError struct {
	Device       string
	Required     QueueFlags
	NeedsPresent bool
}

func (e *NoQueueFamilyError) Error() string {
	msg := fmt.Sprintf("device %q has no queue family with capabilities %s", e.Device, e.Required)
	if e.NeedsPresent {
		msg += " and presentation support"
	}
	return msg
}
