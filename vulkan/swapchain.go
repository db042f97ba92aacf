package vulkan

import (
	"errors"
	"math"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
)

// ErrSwapchainOutOfDate signals that the surface changed underneath the
// swapchain and the ring must be recreated before the next frame.
var ErrSwapchainOutOfDate = errors.New("vulkan: swapchain out of date")

// Swapchain is the image ring negotiated against a window surface
type Swapchain struct {
	device  *Device
	surface *Surface

	swapchain vk.Swapchain
	images    []vk.Image

	format     vk.Format
	colorSpace vk.ColorSpace
	extent     vk.Extent2D

	imageAvailable vk.Semaphore
}

// NewSwapchain negotiates surface format and capabilities and creates
// the swapchain. The previous swapchain may be passed through old when
// recreating after an out-of-date result, nil otherwise.
func (d *Device) NewSwapchain(surface *Surface, cfg core.ViewConfiguration, old *Swapchain) (*Swapchain, error) {
	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.physical, surface.surface, &surfaceFormatCount, nil)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.physical, surface.surface, &surfaceFormatCount, surfaceFormats)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	surfaceFormats[0].Deref()

	var surfaceCapabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.physical, surface.surface, &surfaceCapabilities)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	surfaceCapabilities.Deref()

	extent := vk.Extent2D{Width: cfg.ScreenWidth, Height: cfg.ScreenHeight}
	surfaceCapabilities.CurrentExtent.Deref()
	// The driver reports the mandated extent unless it leaves the size
	// up to the swapchain.
	if surfaceCapabilities.CurrentExtent.Width != math.MaxUint32 {
		extent = surfaceCapabilities.CurrentExtent
	}

	imageCount := cfg.SwapchainSize
	if imageCount < surfaceCapabilities.MinImageCount {
		imageCount = surfaceCapabilities.MinImageCount
	}
	if surfaceCapabilities.MaxImageCount > 0 && imageCount > surfaceCapabilities.MaxImageCount {
		imageCount = surfaceCapabilities.MaxImageCount
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for _, flag := range compositeAlphaFlags {
		if surfaceCapabilities.SupportedCompositeAlpha&vk.CompositeAlphaFlags(flag) != 0 {
			compositeAlpha = flag
			break
		}
	}

	var oldSwapchain vk.Swapchain
	if old != nil {
		oldSwapchain = old.swapchain
	}

	scci := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface.surface,
		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormats[0].Format,
		ImageColorSpace:  surfaceFormats[0].ColorSpace,
		ImageExtent:      extent,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     oldSwapchain,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.device, &scci, nil, &swapchain)); err != nil {
		return nil, errors.New("vk.CreateSwapchain(): " + err.Error())
	}

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &numImages, nil)); err != nil {
		vk.DestroySwapchain(d.device, swapchain, nil)
		return nil, errors.New("vk.GetSwapchainImages(): " + err.Error())
	}
	images := make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &numImages, images)); err != nil {
		vk.DestroySwapchain(d.device, swapchain, nil)
		return nil, errors.New("vk.GetSwapchainImages(): " + err.Error())
	}

	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var imageAvailable vk.Semaphore
	if err := vk.Error(vk.CreateSemaphore(d.device, &sci, nil, &imageAvailable)); err != nil {
		vk.DestroySwapchain(d.device, swapchain, nil)
		return nil, errors.New("vk.CreateSemaphore(): " + err.Error())
	}

	return &Swapchain{
		device:         d,
		surface:        surface,
		swapchain:      swapchain,
		images:         images,
		format:         surfaceFormats[0].Format,
		colorSpace:     surfaceFormats[0].ColorSpace,
		extent:         extent,
		imageAvailable: imageAvailable,
	}, nil
}

// ImageCount returns the size of the negotiated image ring
func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

// Format returns the negotiated surface format
func (s *Swapchain) Format() vk.Format {
	return s.format
}

// Extent returns the negotiated image extent
func (s *Swapchain) Extent() vk.Extent2D {
	return s.extent
}

// Acquire grabs the next presentable image index. Returns
// ErrSwapchainOutOfDate when the ring must be recreated.
func (s *Swapchain) Acquire() (uint32, error) {
	var index uint32
	result := vk.AcquireNextImage(s.device.device, s.swapchain, math.MaxUint64, s.imageAvailable, vk.NullFence, &index)
	if result == vk.ErrorOutOfDate {
		return 0, ErrSwapchainOutOfDate
	}
	if err := vk.Error(result); err != nil {
		return 0, errors.New("vk.AcquireNextImage(): " + err.Error())
	}
	return index, nil
}

// Present queues the acquired image for display. Returns
// ErrSwapchainOutOfDate when the ring must be recreated.
func (s *Swapchain) Present(index uint32) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.imageAvailable},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.swapchain},
		PImageIndices:      []uint32{index},
	}

	result := vk.QueuePresent(s.device.queue, &presentInfo)
	if result == vk.ErrorOutOfDate {
		return ErrSwapchainOutOfDate
	}
	if err := vk.Error(result); err != nil {
		return errors.New("vk.QueuePresent(): " + err.Error())
	}
	return nil
}

// Destroy releases the swapchain and its synchronisation primitives
func (s *Swapchain) Destroy() {
	vk.DestroySemaphore(s.device.device, s.imageAvailable, nil)
	vk.DestroySwapchain(s.device.device, s.swapchain, nil)
}
