package core_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/veldt3d/vkboot/core"
)

// fakeDriver implements core.Driver without any native driver loaded.
type fakeDriver struct {
	devices []core.Candidate
	err     error
}

func (d *fakeDriver) Devices() ([]core.Candidate, error) {
	return d.devices, d.err
}

// fakeSurface reports presentation support from a per-device family
// index table. A missing entry means no family can present.
type fakeSurface struct {
	supported map[string][]int
}

func (s *fakeSurface) PresentSupported(c *core.Candidate, family core.QueueFamily) bool {
	for _, index := range s.supported[c.Name] {
		if index == family.Index {
			return true
		}
	}
	return false
}

func graphicsCandidate(name string, class core.DeviceClass, extensions ...string) core.Candidate {
	return core.Candidate{
		Name:       name,
		Class:      class,
		Extensions: extensions,
		Families: []core.QueueFamily{
			{Index: 0, Flags: core.QueueGraphics | core.QueueTransfer, Count: 1},
		},
	}
}

func TestSelectReturnsMatchingCandidate(t *testing.T) {
	c := qt.New(t)

	candidates := []core.Candidate{
		graphicsCandidate("weak", core.DeviceCPU),
		graphicsCandidate("strong", core.DeviceDiscrete, "VK_KHR_swapchain"),
	}

	chosen, err := core.Select(candidates, core.Criteria{
		Extensions: []string{"VK_KHR_swapchain"},
		Queues:     core.QueueGraphics,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(chosen.Name, qt.Equals, "strong")
	c.Assert(chosen.HasExtensions([]string{"VK_KHR_swapchain"}), qt.Equals, true)
}

func TestSelectRanksByDeviceClass(t *testing.T) {
	c := qt.New(t)

	candidates := []core.Candidate{
		graphicsCandidate("cpu", core.DeviceCPU),
		graphicsCandidate("integrated", core.DeviceIntegrated),
		graphicsCandidate("discrete", core.DeviceDiscrete),
	}

	chosen, err := core.Select(candidates, core.Criteria{Queues: core.QueueGraphics})
	c.Assert(err, qt.IsNil)
	c.Assert(chosen.Name, qt.Equals, "discrete")
}

func TestSelectTieBreaksOnEnumerationOrder(t *testing.T) {
	c := qt.New(t)

	candidates := []core.Candidate{
		graphicsCandidate("first", core.DeviceDiscrete),
		graphicsCandidate("second", core.DeviceDiscrete),
	}

	// The ranking is keyed only on device class, so the first-seen
	// candidate must win every run.
	for run := 0; run < 10; run++ {
		chosen, err := core.Select(candidates, core.Criteria{Queues: core.QueueGraphics})
		c.Assert(err, qt.IsNil)
		c.Assert(chosen.Name, qt.Equals, "first")
	}
}

func TestSelectHonoursCustomPreference(t *testing.T) {
	c := qt.New(t)

	candidates := []core.Candidate{
		graphicsCandidate("discrete", core.DeviceDiscrete),
		graphicsCandidate("cpu", core.DeviceCPU),
	}

	chosen, err := core.Select(candidates, core.Criteria{
		Queues:     core.QueueGraphics,
		Preference: []core.DeviceClass{core.DeviceCPU, core.DeviceDiscrete},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(chosen.Name, qt.Equals, "cpu")
}

func TestSelectQueueProbeUsesIntersection(t *testing.T) {
	c := qt.New(t)

	// The family holds only one of the two requested bits; the
	// existence probe accepts any overlap.
	candidate := core.Candidate{
		Name:  "partial",
		Class: core.DeviceDiscrete,
		Families: []core.QueueFamily{
			{Index: 0, Flags: core.QueueTransfer, Count: 1},
		},
	}

	chosen, err := core.Select([]core.Candidate{candidate}, core.Criteria{
		Queues: core.QueueGraphics | core.QueueTransfer,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(chosen.Name, qt.Equals, "partial")
}

func TestSelectRejectsAllCandidates(t *testing.T) {
	c := qt.New(t)

	candidates := []core.Candidate{
		graphicsCandidate("no-ext", core.DeviceDiscrete),
		{
			Name:       "no-queues",
			Class:      core.DeviceDiscrete,
			Extensions: []string{"VK_KHR_swapchain"},
			Families: []core.QueueFamily{
				{Index: 0, Flags: core.QueueTransfer, Count: 1},
			},
		},
	}

	_, err := core.Select(candidates, core.Criteria{
		Extensions: []string{"VK_KHR_swapchain"},
		Queues:     core.QueueGraphics,
	})
	c.Assert(err, qt.IsNotNil)

	var rejected *core.NoSuitableDeviceError
	c.Assert(errors.As(err, &rejected), qt.Equals, true)
	c.Assert(rejected.Considered, qt.Equals, 2)
	c.Assert(rejected.MissingExtensions, qt.Equals, 1)
	c.Assert(rejected.MissingQueues, qt.Equals, 1)
	c.Assert(err, qt.ErrorMatches, `no suitable device among 2 candidates .*`)
}

func TestSelectExcludesDeviceWithoutPresentSupport(t *testing.T) {
	c := qt.New(t)

	surface := &fakeSurface{supported: map[string][]int{
		"integrated": {0},
	}}

	candidates := []core.Candidate{
		graphicsCandidate("discrete", core.DeviceDiscrete),
		graphicsCandidate("integrated", core.DeviceIntegrated),
	}

	// The discrete device qualifies on every count except presentation,
	// so the integrated one must win.
	chosen, err := core.Select(candidates, core.Criteria{
		Queues:  core.QueueGraphics,
		Surface: surface,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(chosen.Name, qt.Equals, "integrated")
}

func TestSelectFailsWhenNoFamilyPresents(t *testing.T) {
	c := qt.New(t)

	surface := &fakeSurface{supported: map[string][]int{}}
	candidates := []core.Candidate{graphicsCandidate("discrete", core.DeviceDiscrete)}

	_, err := core.Select(candidates, core.Criteria{
		Queues:  core.QueueGraphics,
		Surface: surface,
	})

	var rejected *core.NoSuitableDeviceError
	c.Assert(errors.As(err, &rejected), qt.Equals, true)
	c.Assert(rejected.MissingPresent, qt.Equals, 1)
}

func TestResolveQueueFamilyRequiresContainment(t *testing.T) {
	c := qt.New(t)

	device := core.Candidate{
		Name: "gpu",
		Families: []core.QueueFamily{
			{Index: 0, Flags: core.QueueTransfer, Count: 1},
			{Index: 1, Flags: core.QueueGraphics | core.QueueTransfer, Count: 1},
			{Index: 2, Flags: core.QueueGraphics, Count: 1},
		},
	}

	// Family 1 is the first whose flags fully contain the requirement;
	// family 2 also matches but sits later in the scan.
	index, err := core.ResolveQueueFamily(device, core.QueueGraphics, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, 1)
}

func TestResolveQueueFamilyFailsWithoutMatch(t *testing.T) {
	c := qt.New(t)

	device := core.Candidate{
		Name: "gpu",
		Families: []core.QueueFamily{
			{Index: 0, Flags: core.QueueGraphics, Count: 1},
			{Index: 1, Flags: core.QueueTransfer, Count: 1},
		},
	}

	_, err := core.ResolveQueueFamily(device, core.QueueCompute, nil)
	var missing *core.NoQueueFamilyError
	c.Assert(errors.As(err, &missing), qt.Equals, true)
	c.Assert(missing.Device, qt.Equals, "gpu")
	c.Assert(missing.Required, qt.Equals, core.QueueCompute)
}

func TestResolveQueueFamilyChecksPresentation(t *testing.T) {
	c := qt.New(t)

	surface := &fakeSurface{supported: map[string][]int{
		"gpu": {2},
	}}
	device := core.Candidate{
		Name: "gpu",
		Families: []core.QueueFamily{
			{Index: 0, Flags: core.QueueGraphics, Count: 1},
			{Index: 1, Flags: core.QueueGraphics, Count: 1},
			{Index: 2, Flags: core.QueueGraphics, Count: 1},
		},
	}

	index, err := core.ResolveQueueFamily(device, core.QueueGraphics, surface)
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, 2)
}

func TestChooseRunsFullPipeline(t *testing.T) {
	c := qt.New(t)

	driver := &fakeDriver{devices: []core.Candidate{
		graphicsCandidate("integrated", core.DeviceIntegrated),
		graphicsCandidate("discrete", core.DeviceDiscrete),
	}}

	result, err := core.Choose(driver, core.Criteria{Queues: core.QueueGraphics})
	c.Assert(err, qt.IsNil)
	c.Assert(result.Device.Name, qt.Equals, "discrete")
	c.Assert(result.QueueFamilyIndex, qt.Equals, 0)
}

func TestChooseWrapsEnumerationFailure(t *testing.T) {
	c := qt.New(t)

	driver := &fakeDriver{err: errors.New("icd gone")}

	_, err := core.Choose(driver, core.Criteria{Queues: core.QueueGraphics})
	var enumErr *core.EnumerationError
	c.Assert(errors.As(err, &enumErr), qt.Equals, true)
	c.Assert(err, qt.ErrorMatches, "device enumeration failed: icd gone")
}

func TestChooseIntersectProbeCanStrandResolve(t *testing.T) {
	c := qt.New(t)

	// The probe in Select passes on intersection alone, but the final
	// resolution demands containment, so a device whose only family
	// holds a strict subset of the flags fails at the resolve step.
	driver := &fakeDriver{devices: []core.Candidate{{
		Name:  "partial",
		Class: core.DeviceDiscrete,
		Families: []core.QueueFamily{
			{Index: 0, Flags: core.QueueTransfer, Count: 1},
		},
	}}}

	_, err := core.Choose(driver, core.Criteria{
		Queues: core.QueueGraphics | core.QueueTransfer,
	})
	var missing *core.NoQueueFamilyError
	c.Assert(errors.As(err, &missing), qt.Equals, true)
}
