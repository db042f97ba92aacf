package vulkan

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
)

// NewDevice creates the logical device on the selected candidate and
// retrieves a single queue from the resolved family. This is the
// collaborator the selection result is handed to; it performs no
// selection of its own.
func NewDevice(candidate core.Candidate, familyIndex int, extensions []string) (*Device, error) {
	handle, ok := physicalDevice(&candidate)
	if !ok {
		return nil, errors.New("candidate does not carry a vulkan device handle")
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(familyIndex),
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(handle, &dci, nil, &device)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}

	var queue vk.Queue
	vk.GetDeviceQueue(device, uint32(familyIndex), 0, &queue)

	return &Device{
		physical:    handle,
		device:      device,
		queue:       queue,
		queueFamily: familyIndex,
	}, nil
}

// Device is a logical device together with its one negotiated queue
type Device struct {
	physical    vk.PhysicalDevice
	device      vk.Device
	queue       vk.Queue
	queueFamily int
}

// VK exposes the native device handle
func (d *Device) VK() vk.Device {
	return d.device
}

// Queue exposes the negotiated queue handle
func (d *Device) Queue() vk.Queue {
	return d.queue
}

// QueueFamily returns the queue family index the device queue was
// created on
func (d *Device) QueueFamily() int {
	return d.queueFamily
}

// WaitIdle blocks until the device finishes all submitted work
func (d *Device) WaitIdle() {
	vk.DeviceWaitIdle(d.device)
}

// Destroy releases the logical device
func (d *Device) Destroy() {
	vk.DestroyDevice(d.device, nil)
}
