package vulkan

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
)

func TestDeviceClassOf(t *testing.T) {
	cases := []struct {
		in   vk.PhysicalDeviceType
		want core.DeviceClass
	}{
		{vk.PhysicalDeviceTypeDiscreteGpu, core.DeviceDiscrete},
		{vk.PhysicalDeviceTypeIntegratedGpu, core.DeviceIntegrated},
		{vk.PhysicalDeviceTypeVirtualGpu, core.DeviceVirtual},
		{vk.PhysicalDeviceTypeCpu, core.DeviceCPU},
		{vk.PhysicalDeviceTypeOther, core.DeviceOther},
	}
	for _, tc := range cases {
		if got := deviceClassOf(tc.in); got != tc.want {
			t.Errorf("deviceClassOf(%d) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestQueueFlagsOf(t *testing.T) {
	in := vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit)
	want := core.QueueGraphics | core.QueueTransfer
	if got := queueFlagsOf(in); got != want {
		t.Errorf("queueFlagsOf() = %s, want %s", got, want)
	}

	if got := queueFlagsOf(0); got != 0 {
		t.Errorf("queueFlagsOf(0) = %s, want none", got)
	}
}

func TestShaderNameStage(t *testing.T) {
	name, stage, ok := shaderNameStage("triangle.vert.spv")
	if !ok || name != "triangle" || stage != VertexStage {
		t.Errorf("unexpected result for vertex shader: %q %d %v", name, stage, ok)
	}

	name, stage, ok = shaderNameStage("triangle.frag.spv")
	if !ok || name != "triangle" || stage != FragmentStage {
		t.Errorf("unexpected result for fragment shader: %q %d %v", name, stage, ok)
	}

	for _, bad := range []string{"triangle.spv", "triangle.vert", "a.b.c.spv", "triangle.geom.spv"} {
		if _, _, ok := shaderNameStage(bad); ok {
			t.Errorf("expected %q to be skipped", bad)
		}
	}
}
