package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/envy"

	"github.com/veldt3d/vkboot/core"
)

func TestParseQueueFlags(t *testing.T) {
	c := qt.New(t)

	flags, err := core.ParseQueueFlags("graphics, transfer")
	c.Assert(err, qt.IsNil)
	c.Assert(flags, qt.Equals, core.QueueGraphics|core.QueueTransfer)

	flags, err = core.ParseQueueFlags("")
	c.Assert(err, qt.IsNil)
	c.Assert(flags, qt.Equals, core.QueueFlags(0))

	_, err = core.ParseQueueFlags("graphics,tessellation")
	c.Assert(err, qt.ErrorMatches, `unknown queue capability "tessellation"`)
}

func TestQueueFlagsString(t *testing.T) {
	c := qt.New(t)

	c.Assert((core.QueueGraphics | core.QueueCompute).String(), qt.Equals, "graphics|compute")
	c.Assert(core.QueueFlags(0).String(), qt.Equals, "none")
}

func TestQueueFlagsSetOperations(t *testing.T) {
	c := qt.New(t)

	both := core.QueueGraphics | core.QueueTransfer
	c.Assert(both.Has(core.QueueGraphics), qt.Equals, true)
	c.Assert(core.QueueGraphics.Has(both), qt.Equals, false)
	c.Assert(core.QueueGraphics.Intersects(both), qt.Equals, true)
	c.Assert(core.QueueCompute.Intersects(both), qt.Equals, false)
}

func TestHasExtensions(t *testing.T) {
	c := qt.New(t)

	candidate := core.Candidate{Extensions: []string{"VK_KHR_swapchain", "VK_EXT_debug_report"}}
	c.Assert(candidate.HasExtensions(nil), qt.Equals, true)
	c.Assert(candidate.HasExtensions([]string{"VK_KHR_swapchain"}), qt.Equals, true)
	c.Assert(candidate.HasExtensions([]string{"VK_KHR_swapchain", "VK_KHR_maintenance1"}), qt.Equals, false)
}

func TestFromEnvOverlaysDefaults(t *testing.T) {
	c := qt.New(t)

	envy.Temp(func() {
		envy.Set("VKBOOT_APP_NAME", "probe")
		envy.Set("VKBOOT_DEVICE_EXTENSIONS", "VK_KHR_swapchain, VK_KHR_maintenance1")
		envy.Set("VKBOOT_QUEUE_FLAGS", "graphics,compute")
		envy.Set("VKBOOT_WIDTH", "1024")

		cfg, err := core.FromEnv()
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Instance.AppName, qt.Equals, "probe")
		c.Assert(cfg.Selection.DeviceExtensions, qt.DeepEquals, []string{"VK_KHR_swapchain", "VK_KHR_maintenance1"})
		c.Assert(cfg.Selection.QueueFlags, qt.Equals, "graphics,compute")
		c.Assert(cfg.View.ScreenWidth, qt.Equals, uint32(1024))
		c.Assert(cfg.View.ScreenHeight, qt.Equals, uint32(600))
		c.Assert(cfg.Time.FramesPerSecond, qt.Equals, 60)
	})
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	c := qt.New(t)

	envy.Temp(func() {
		envy.Set("VKBOOT_QUEUE_FLAGS", "warp")

		_, err := core.FromEnv()
		c.Assert(err, qt.ErrorMatches, `VKBOOT_QUEUE_FLAGS: unknown queue capability "warp"`)
	})
}
