package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
)

// NewSurface wraps a surface pointer obtained from the windowing layer,
// e.g. sdl's VulkanCreateSurface.
func NewSurface(pSurface unsafe.Pointer) *Surface {
	return &Surface{surface: vk.SurfaceFromPointer(uintptr(pSurface))}
}

// Surface is the presentation collaborator backed by a real window
// surface. It implements core.Surface.
type Surface struct {
	surface vk.Surface
}

// VK exposes the native surface handle
func (s *Surface) VK() vk.Surface {
	return s.surface
}

// PresentSupported implements core.Surface. Candidates that were not
// produced by the vulkan driver never support presentation here.
func (s *Surface) PresentSupported(c *core.Candidate, family core.QueueFamily) bool {
	handle, ok := physicalDevice(c)
	if !ok {
		return false
	}
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(handle, uint32(family.Index), s.surface, &supported)); err != nil {
		return false
	}
	return supported.B()
}

// Destroy releases the surface. The instance that the surface was
// created against must still be alive.
func (s *Surface) Destroy(i *Instance) {
	vk.DestroySurface(i.instance, s.surface, nil)
}
