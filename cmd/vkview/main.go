// Command vkview opens a window, runs presentation-aware device
// selection against its surface and drives a minimal acquire/present
// loop over the negotiated swapchain. Images go to the display
// untouched; there is no rendering here.
package main

import (
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/veldt3d/vkboot/core"
	"github.com/veldt3d/vkboot/vulkan"
)

func init() {
	runtime.LockOSThread()
}

func newWindow(cfg core.ViewConfiguration) *sdl.Window {
	window, err := sdl.CreateWindow("vkview",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN)
	if err != nil {
		log.Fatal(err)
	}
	return window
}

func main() {
	cfg, err := core.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatal(err)
	}
	defer sdl.VulkanUnloadLibrary()

	if err := vulkan.Load(sdl.VulkanGetVkGetInstanceProcAddr()); err != nil {
		log.Fatal(err)
	}

	window := newWindow(cfg.View)
	defer window.Destroy()

	instanceCfg := cfg.Instance
	instanceCfg.Extensions = append(instanceCfg.Extensions, window.VulkanGetInstanceExtensions()...)

	instance, err := vulkan.NewInstance(nil, instanceCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	surfPtr, err := window.VulkanCreateSurface(instance.VK())
	if err != nil {
		log.Fatal(err)
	}
	surface := vulkan.NewSurface(surfPtr)
	defer surface.Destroy(instance)

	criteria := core.Criteria{
		Extensions: append([]string{"VK_KHR_swapchain"}, cfg.Selection.DeviceExtensions...),
		Queues:     core.QueueGraphics,
		Surface:    surface,
	}
	result, err := core.Choose(instance, criteria)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("using device: %s (class: %s, queue family: %d)",
		result.Device.Name, result.Device.Class, result.QueueFamilyIndex)

	device, err := vulkan.NewDevice(result.Device, result.QueueFamilyIndex, criteria.Extensions)
	if err != nil {
		log.Fatal(err)
	}
	defer device.Destroy()

	swapchain, err := device.NewSwapchain(surface, cfg.View, nil)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("swapchain ready: %d images at %dx%d",
		swapchain.ImageCount(), swapchain.Extent().Width, swapchain.Extent().Height)

	shaders, err := loadShaders(device, cfg.View)
	if err != nil {
		log.Fatal(err)
	}

	clock := core.NewClock(cfg.Time)
	defer clock.Stop()

	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-clock.Frames():
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}

			index, err := swapchain.Acquire()
			if err == vulkan.ErrSwapchainOutOfDate {
				if swapchain, err = rebuild(device, surface, cfg.View, swapchain); err != nil {
					log.Fatal(err)
				}
				continue EventLoop
			}
			if err != nil {
				log.Fatal(err)
			}

			if err := swapchain.Present(index); err == vulkan.ErrSwapchainOutOfDate {
				if swapchain, err = rebuild(device, surface, cfg.View, swapchain); err != nil {
					log.Fatal(err)
				}
			} else if err != nil {
				log.Fatal(err)
			}
		}
	}

	device.WaitIdle()
	for _, shader := range shaders {
		shader.Destroy()
	}
	swapchain.Destroy()
}

// loadShaders pulls compiled shader modules from the configured pack or
// directory. Neither being set is fine, vkview has nothing to draw with
// them anyway.
func loadShaders(device *vulkan.Device, cfg core.ViewConfiguration) ([]*vulkan.Shader, error) {
	var (
		shaders []*vulkan.Shader
		err     error
	)
	switch {
	case cfg.ShaderPack != "":
		shaders, err = device.LoadShaderPack(cfg.ShaderPack)
	case cfg.ShaderDirectory != "":
		shaders, err = device.LoadShaderDir(cfg.ShaderDirectory)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, shader := range shaders {
		log.Infof("loaded shader module %q (stage %d)", shader.Name(), shader.Stage())
	}
	return shaders, nil
}

func rebuild(device *vulkan.Device, surface *vulkan.Surface, cfg core.ViewConfiguration, old *vulkan.Swapchain) (*vulkan.Swapchain, error) {
	device.WaitIdle()
	next, err := device.NewSwapchain(surface, cfg, old)
	if err != nil {
		return nil, err
	}
	old.Destroy()
	log.Infof("swapchain recreated: %dx%d", next.Extent().Width, next.Extent().Height)
	return next, nil
}
