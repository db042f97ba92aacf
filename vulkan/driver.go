package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
)

// Devices implements core.Driver. Every physical device exposed by the
// driver is described as an immutable candidate snapshot; the native
// handle rides along opaquely for the later device-creation step.
func (i *Instance) Devices() ([]core.Candidate, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(i.instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	handles := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(i.instance, &deviceCount, handles)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}

	candidates := make([]core.Candidate, len(handles))
	for idx, handle := range handles {
		candidate, err := describeDevice(handle)
		if err != nil {
			return nil, err
		}
		candidates[idx] = candidate
	}
	return candidates, nil
}

func describeDevice(handle vk.PhysicalDevice) (core.Candidate, error) {
	candidate := core.Candidate{Handle: handle}

	// Extensions
	var numExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(handle, "", &numExtensions, nil)); err != nil {
		return candidate, fmt.Errorf("vk.EnumerateDeviceExtensionProperties(): %s", err)
	}
	deviceExt := make([]vk.ExtensionProperties, numExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(handle, "", &numExtensions, deviceExt)); err != nil {
		return candidate, fmt.Errorf("vk.EnumerateDeviceExtensionProperties(): %s", err)
	}
	for _, ext := range deviceExt {
		ext.Deref()
		candidate.Extensions = append(candidate.Extensions, vk.ToString(ext.ExtensionName[:]))
	}

	// Layers
	var numLayers uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(handle, &numLayers, nil)); err != nil {
		return candidate, fmt.Errorf("vk.EnumerateDeviceLayerProperties(): %s", err)
	}
	deviceLayers := make([]vk.LayerProperties, numLayers)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(handle, &numLayers, deviceLayers)); err != nil {
		return candidate, fmt.Errorf("vk.EnumerateDeviceLayerProperties(): %s", err)
	}
	for _, layer := range deviceLayers {
		layer.Deref()
		candidate.Layers = append(candidate.Layers, vk.ToString(layer.LayerName[:]))
	}

	// Memory heaps
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(handle, &memoryProperties)
	memoryProperties.Deref()
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		candidate.Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}

	// General properties
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(handle, &properties)
	properties.Deref()
	candidate.Name = vk.ToString(properties.DeviceName[:])
	candidate.Class = deviceClassOf(properties.DeviceType)
	candidate.DeviceID = properties.DeviceID
	candidate.VendorID = properties.VendorID
	candidate.DriverVersion = properties.DriverVersion

	// Queue families, in index order
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(handle, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(handle, &queueFamilyCount, queueFamilies)
	for idx := range queueFamilies {
		queueFamilies[idx].Deref()
		candidate.Families = append(candidate.Families, core.QueueFamily{
			Index: idx,
			Flags: queueFlagsOf(queueFamilies[idx].QueueFlags),
			Count: int(queueFamilies[idx].QueueCount),
		})
	}

	return candidate, nil
}

func deviceClassOf(deviceType vk.PhysicalDeviceType) core.DeviceClass {
	switch deviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return core.DeviceDiscrete
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return core.DeviceIntegrated
	case vk.PhysicalDeviceTypeVirtualGpu:
		return core.DeviceVirtual
	case vk.PhysicalDeviceTypeCpu:
		return core.DeviceCPU
	default:
		return core.DeviceOther
	}
}

func queueFlagsOf(flags vk.QueueFlags) core.QueueFlags {
	var out core.QueueFlags
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		out |= core.QueueGraphics
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		out |= core.QueueCompute
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		out |= core.QueueTransfer
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		out |= core.QueueSparseBinding
	}
	return out
}

// physicalDevice unpacks the opaque handle a candidate carries.
func physicalDevice(c *core.Candidate) (vk.PhysicalDevice, bool) {
	handle, ok := c.Handle.(vk.PhysicalDevice)
	return handle, ok
}
