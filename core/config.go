package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// Configuration defines a global toolkit configuration setting
type Configuration struct {
	Instance  InstanceConfiguration
	Selection SelectionConfiguration
	Time      TimeConfiguration
	View      ViewConfiguration
}

// InstanceConfiguration is used to configure driver instance creation
type InstanceConfiguration struct {
	AppName    string
	EngineName string

	// DebugMode turns on the driver's validation layer and debug
	// reporting extension
	DebugMode bool

	Extensions []string
	Layers     []string
}

// SelectionConfiguration carries the device selection criteria in their
// serialisable form
type SelectionConfiguration struct {
	// DeviceExtensions the device must support, e.g. VK_KHR_swapchain
	DeviceExtensions []string

	// QueueFlags is a comma separated capability list understood by
	// ParseQueueFlags
	QueueFlags string
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps the presentation loop rate.
	// To unlimit, set to 0
	FramesPerSecond int
}

// ViewConfiguration is used to configure the windowed demo surface
type ViewConfiguration struct {
	ScreenWidth   uint32
	ScreenHeight  uint32
	SwapchainSize uint32

	// ShaderDirectory holds compiled .spv files, may be empty
	ShaderDirectory string

	// ShaderPack is an alternative pak archive with compiled shaders
	ShaderPack string
}

// DefaultConfiguration is the starting point FromEnv overlays.
var DefaultConfiguration = Configuration{
	Instance: InstanceConfiguration{
		AppName:    "vkboot",
		EngineName: "vkboot",
	},
	Selection: SelectionConfiguration{
		QueueFlags: "graphics",
	},
	Time: TimeConfiguration{
		FramesPerSecond: 60,
	},
	View: ViewConfiguration{
		ScreenWidth:   800,
		ScreenHeight:  600,
		SwapchainSize: 3,
	},
}

// FromEnv builds a Configuration from VKBOOT_* environment variables on
// top of DefaultConfiguration. A .env file in the working directory is
// picked up first when present.
func FromEnv() (Configuration, error) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	cfg := DefaultConfiguration

	cfg.Instance.AppName = envy.Get("VKBOOT_APP_NAME", cfg.Instance.AppName)
	cfg.Instance.EngineName = envy.Get("VKBOOT_ENGINE_NAME", cfg.Instance.EngineName)
	cfg.Instance.Extensions = splitList(envy.Get("VKBOOT_INSTANCE_EXTENSIONS", ""))
	cfg.Instance.Layers = splitList(envy.Get("VKBOOT_INSTANCE_LAYERS", ""))

	debug, err := boolVar("VKBOOT_DEBUG", false)
	if err != nil {
		return cfg, err
	}
	cfg.Instance.DebugMode = debug

	cfg.Selection.DeviceExtensions = splitList(envy.Get("VKBOOT_DEVICE_EXTENSIONS", ""))
	cfg.Selection.QueueFlags = envy.Get("VKBOOT_QUEUE_FLAGS", cfg.Selection.QueueFlags)
	if _, err := ParseQueueFlags(cfg.Selection.QueueFlags); err != nil {
		return cfg, fmt.Errorf("VKBOOT_QUEUE_FLAGS: %s", err)
	}

	fps, err := uintVar("VKBOOT_FPS", uint32(cfg.Time.FramesPerSecond))
	if err != nil {
		return cfg, err
	}
	cfg.Time.FramesPerSecond = int(fps)

	if cfg.View.ScreenWidth, err = uintVar("VKBOOT_WIDTH", cfg.View.ScreenWidth); err != nil {
		return cfg, err
	}
	if cfg.View.ScreenHeight, err = uintVar("VKBOOT_HEIGHT", cfg.View.ScreenHeight); err != nil {
		return cfg, err
	}
	if cfg.View.SwapchainSize, err = uintVar("VKBOOT_SWAPCHAIN_SIZE", cfg.View.SwapchainSize); err != nil {
		return cfg, err
	}
	cfg.View.ShaderDirectory = envy.Get("VKBOOT_SHADER_DIR", cfg.View.ShaderDirectory)
	cfg.View.ShaderPack = envy.Get("VKBOOT_SHADER_PACK", cfg.View.ShaderPack)

	return cfg, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func boolVar(key string, fallback bool) (bool, error) {
	raw := envy.Get(key, strconv.FormatBool(fallback))
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, raw)
	}
	return value, nil
}

func uintVar(key string, fallback uint32) (uint32, error) {
	raw := envy.Get(key, strconv.FormatUint(uint64(fallback), 10))
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an unsigned integer", key, raw)
	}
	return uint32(value), nil
}
