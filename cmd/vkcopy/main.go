// Command vkcopy is a headless smoke test for the selection and buffer
// plumbing: it picks a device, uploads a few vertices to a transfer
// source buffer, copies them through the device queue and reads the
// destination back.
package main

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
	"github.com/veldt3d/vkboot/vulkan"
)

var vertices = []mgl32.Vec2{
	{-0.5, -0.25},
	{0.0, 0.5},
	{0.25, -0.1},
}

func main() {
	if err := vulkan.Load(nil); err != nil {
		log.Fatal(err)
	}

	instance, err := vulkan.NewInstance(nil, core.InstanceConfiguration{})
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	result, err := core.Choose(instance, core.Criteria{Queues: core.QueueGraphics})
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("using device: %s (class: %s, queue family: %d)",
		result.Device.Name, result.Device.Class, result.QueueFamilyIndex)

	device, err := vulkan.NewDevice(result.Device, result.QueueFamilyIndex, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer device.Destroy()

	payload := new(bytes.Buffer)
	if err := binary.Write(payload, binary.LittleEndian, vertices); err != nil {
		log.Fatal(err)
	}
	size := uint64(payload.Len())

	hostVisible := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)

	src, err := device.NewBuffer(size, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit), hostVisible)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Destroy()

	dst, err := device.NewBuffer(size, vk.BufferUsageFlags(vk.BufferUsageTransferDstBit), hostVisible)
	if err != nil {
		log.Fatal(err)
	}
	defer dst.Destroy()

	if err := src.Upload(payload.Bytes()); err != nil {
		log.Fatal(err)
	}
	if err := device.CopyBuffer(src, dst, size); err != nil {
		log.Fatal(err)
	}

	readback := make([]byte, size)
	if err := dst.Download(readback); err != nil {
		log.Fatal(err)
	}
	if !bytes.Equal(payload.Bytes(), readback) {
		log.Fatal("destination buffer does not match the source")
	}
	log.Infof("copied %d bytes of vertex data through the device queue", size)
}
