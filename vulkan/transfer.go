package vulkan

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"
)

// CopyBuffer records a one-shot transfer of size bytes from src to dst
// on a transient command pool, submits it to the device queue and waits
// for the queue to drain.
func (d *Device) CopyBuffer(src, dst *Buffer, size uint64) error {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
		QueueFamilyIndex: uint32(d.queueFamily),
	}

	var pool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(d.device, &cpci, nil, &pool)); err != nil {
		return errors.New("vk.CreateCommandPool(): " + err.Error())
	}
	defer vk.DestroyCommandPool(d.device, pool, nil)

	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	commandBuffers := make([]vk.CommandBuffer, 1)
	if err := vk.Error(vk.AllocateCommandBuffers(d.device, &cbai, commandBuffers)); err != nil {
		return errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(commandBuffers[0], &cbbi)); err != nil {
		return errors.New("vk.BeginCommandBuffer(): " + err.Error())
	}

	vk.CmdCopyBuffer(commandBuffers[0], src.buffer, dst.buffer, 1, []vk.BufferCopy{{
		Size: vk.DeviceSize(size),
	}})

	if err := vk.Error(vk.EndCommandBuffer(commandBuffers[0])); err != nil {
		return errors.New("vk.EndCommandBuffer(): " + err.Error())
	}

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    commandBuffers,
	}}
	if err := vk.Error(vk.QueueSubmit(d.queue, 1, submit, vk.NullFence)); err != nil {
		return errors.New("vk.QueueSubmit(): " + err.Error())
	}
	if err := vk.Error(vk.QueueWaitIdle(d.queue)); err != nil {
		return errors.New("vk.QueueWaitIdle(): " + err.Error())
	}
	return nil
}
