package core

// Criteria is the caller supplied filter for device selection. A nil
// Surface means presentation support is not required. An empty
// Preference falls back to DefaultPreference.
type Criteria struct {
	Extensions []string
	Queues     QueueFlags
	Surface    Surface
	Preference []DeviceClass
}

// Result is the outcome of a full selection pass.
type Result struct {
	Device           Candidate
	QueueFamilyIndex int
}

// Enumerate asks the driver for its device candidates. A driver failure
// is wrapped in EnumerationError and propagates to the caller; nothing
// is retried.
func Enumerate(d Driver) ([]Candidate, error) {
	devices, err := d.Devices()
	if err != nil {
		return nil, &EnumerationError{Err: err}
	}
	return devices, nil
}

// Select filters candidates by the criteria and returns the best
// survivor. A candidate survives when its extension list contains every
// required extension and at least one of its queue families intersects
// the required queue flags (and, with a surface, that family can present
// to it). Survivors are ranked by device class preference; ties keep the
// candidate that was enumerated first.
//
// Note the existence probe here is an intersection test. The final
// queue family resolution in ResolveQueueFamily demands full
// containment instead.
func Select(candidates []Candidate, criteria Criteria) (Candidate, error) {
	preference := criteria.Preference
	if len(preference) == 0 {
		preference = DefaultPreference
	}

	rejected := &NoSuitableDeviceError{Considered: len(candidates)}

	var (
		best     Candidate
		bestRank int
		found    bool
	)
	for _, candidate := range candidates {
		if !candidate.HasExtensions(criteria.Extensions) {
			rejected.MissingExtensions++
			continue
		}

		intersecting, presentable := probeFamilies(&candidate, criteria)
		if !presentable {
			if intersecting {
				rejected.MissingPresent++
			} else {
				rejected.MissingQueues++
			}
			continue
		}

		rank := classRank(candidate.Class, preference)
		if !found || rank < bestRank {
			best = candidate
			bestRank = rank
			found = true
		}
	}

	if !found {
		return Candidate{}, rejected
	}
	return best, nil
}

// probeFamilies reports whether any family intersects the required
// queue flags, and whether any such family also satisfies the surface
// requirement.
func probeFamilies(c *Candidate, criteria Criteria) (intersecting, presentable bool) {
	for _, family := range c.Families {
		if !family.Flags.Intersects(criteria.Queues) {
			continue
		}
		intersecting = true
		if criteria.Surface == nil || criteria.Surface.PresentSupported(c, family) {
			presentable = true
			return
		}
	}
	return
}

func classRank(class DeviceClass, preference []DeviceClass) int {
	for rank, preferred := range preference {
		if class == preferred {
			return rank
		}
	}
	// Classes absent from the preference order sort last, still stable.
	return len(preference)
}

// ResolveQueueFamily scans the device's queue families in index order
// and returns the index of the first family whose flags fully contain
// the required flags and, when a surface is given, that can present to
// it.
func ResolveQueueFamily(device Candidate, required QueueFlags, surface Surface) (int, error) {
	for _, family := range device.Families {
		if !family.Flags.Has(required) {
			continue
		}
		if surface != nil && !surface.PresentSupported(&device, family) {
			continue
		}
		return family.Index, nil
	}
	return 0, &NoQueueFamilyError{
		Device:       device.Name,
		Required:     required,
		NeedsPresent: surface != nil,
	}
}

// Choose runs the whole startup pipeline: enumerate, select, resolve.
// Every failure is terminal and surfaces to the caller untouched.
func Choose(d Driver, criteria Criteria) (Result, error) {
	candidates, err := Enumerate(d)
	if err != nil {
		return Result{}, err
	}

	device, err := Select(candidates, criteria)
	if err != nil {
		return Result{}, err
	}

	index, err := ResolveQueueFamily(device, criteria.Queues, criteria.Surface)
	if err != nil {
		return Result{}, err
	}

	return Result{Device: device, QueueFamilyIndex: index}, nil
}
