// Package vulkan backs the selection core with the real Vulkan driver
// through the vulkan-go binding. It owns the instance handle and
// implements the core package's Driver and Surface collaborator
// interfaces, plus the downstream collaborators the selection result is
// handed to: logical device and queue creation, buffer allocation and
// transfer, swapchain negotiation and shader module loading.
package vulkan

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/veldt3d/vkboot/core"
)

// DefaultAppInfo describes the toolkit to the Vulkan runtime
var DefaultAppInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   "vkboot\x00",
	PEngineName:        "vkboot\x00",
}

// Load points the binding at an instance proc address source and
// initialises the loader. Pass the windowing layer's proc address when
// one exists, nil to use the system loader. Failure means no usable
// driver is present and is terminal.
func Load(procAddr unsafe.Pointer) error {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return &core.DriverLoadError{Err: err}
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}
	if err := vk.Init(); err != nil {
		return &core.DriverLoadError{Err: err}
	}
	return nil
}

// NewInstance creates a Vulkan instance. A nil appInfo falls back to
// DefaultAppInfo.
func NewInstance(appInfo *vk.ApplicationInfo, cfg core.InstanceConfiguration) (*Instance, error) {
	if appInfo == nil {
		appInfo = DefaultAppInfo
	}

	extensions := cfg.Extensions
	layers := cfg.Layers
	if cfg.DebugMode {
		layers = append(layers, "VK_LAYER_KHRONOS_validation")
		extensions = append(extensions, "VK_EXT_debug_report")
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	return &Instance{instance: instance}, nil
}

// Instance owns the process-wide Vulkan instance handle. It is passed
// explicitly into every call that needs it, never kept as hidden global
// state.
type Instance struct {
	instance vk.Instance
}

// VK exposes the native instance handle for the windowing layer
func (i *Instance) VK() vk.Instance {
	return i.instance
}

// Destroy releases the instance
func (i *Instance) Destroy() {
	vk.DestroyInstance(i.instance, nil)
}
