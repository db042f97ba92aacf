package vulkan

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Buffer is a device buffer bound to its own memory allocation
type Buffer struct {
	device *Device
	buffer vk.Buffer
	memory vk.DeviceMemory
	size   uint64
}

// NewBuffer creates a buffer, allocates memory with the requested
// properties and binds the two together.
func (d *Device) NewBuffer(size uint64, usage vk.BufferUsageFlags, properties vk.MemoryPropertyFlags) (*Buffer, error) {
	bci := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(d.device, &bci, nil, &buffer)); err != nil {
		return nil, errors.New("vk.CreateBuffer(): " + err.Error())
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, buffer, &requirements)
	requirements.Deref()

	memoryType, err := d.findMemoryType(requirements.MemoryTypeBits, properties)
	if err != nil {
		vk.DestroyBuffer(d.device, buffer, nil)
		return nil, err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	}

	var memory vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(d.device, &mai, nil, &memory)); err != nil {
		vk.DestroyBuffer(d.device, buffer, nil)
		return nil, errors.New("vk.AllocateMemory(): " + err.Error())
	}

	if err := vk.Error(vk.BindBufferMemory(d.device, buffer, memory, 0)); err != nil {
		vk.FreeMemory(d.device, memory, nil)
		vk.DestroyBuffer(d.device, buffer, nil)
		return nil, errors.New("vk.BindBufferMemory(): " + err.Error())
	}

	return &Buffer{device: d, buffer: buffer, memory: memory, size: size}, nil
}

func (d *Device) findMemoryType(typeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physical, &memoryProperties)
	memoryProperties.Deref()

	for idx := uint32(0); idx < memoryProperties.MemoryTypeCount; idx++ {
		if (typeBits & 1) == 1 {
			memoryProperties.MemoryTypes[idx].Deref()
			if (memoryProperties.MemoryTypes[idx].PropertyFlags & properties) == properties {
				return idx, nil
			}
		}
		typeBits >>= 1
	}
	return 0, errors.New("requested memory type not found")
}

// VK exposes the native buffer handle
func (b *Buffer) VK() vk.Buffer {
	return b.buffer
}

// Size returns the buffer size in bytes
func (b *Buffer) Size() uint64 {
	return b.size
}

// Upload maps the backing memory and copies data into it. Only valid on
// buffers allocated with host-visible memory.
func (b *Buffer) Upload(data []byte) error {
	var pData unsafe.Pointer
	if err := vk.Error(vk.MapMemory(b.device.device, b.memory, 0, vk.DeviceSize(len(data)), 0, &pData)); err != nil {
		return errors.New("vk.MapMemory(): " + err.Error())
	}
	vk.Memcopy(pData, data)
	vk.UnmapMemory(b.device.device, b.memory)
	return nil
}

// Download maps the backing memory and copies its contents out into
// data. Only valid on buffers allocated with host-visible memory.
func (b *Buffer) Download(data []byte) error {
	var pData unsafe.Pointer
	if err := vk.Error(vk.MapMemory(b.device.device, b.memory, 0, vk.DeviceSize(len(data)), 0, &pData)); err != nil {
		return errors.New("vk.MapMemory(): " + err.Error())
	}
	copy(data, bytesOf(pData, len(data)))
	vk.UnmapMemory(b.device.device, b.memory)
	return nil
}

// Destroy releases the buffer and its memory
func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.device.device, b.buffer, nil)
	vk.FreeMemory(b.device.device, b.memory, nil)
}
