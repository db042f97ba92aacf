// Command vkprobe enumerates the physical devices the platform driver
// exposes, runs the selection pipeline against env-configured criteria
// and prints the report as JSON.
package main

import (
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/veldt3d/vkboot/core"
	"github.com/veldt3d/vkboot/vulkan"
)

type report struct {
	Candidates []core.Candidate `json:"candidates"`
	Chosen     *core.Result     `json:"chosen,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

func main() {
	cfg, err := core.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	if err := vulkan.Load(nil); err != nil {
		log.Fatal(err)
	}

	instance, err := vulkan.NewInstance(nil, cfg.Instance)
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	candidates, err := core.Enumerate(instance)
	if err != nil {
		log.Fatal(err)
	}

	queues, err := core.ParseQueueFlags(cfg.Selection.QueueFlags)
	if err != nil {
		log.Fatal(err)
	}

	out := report{Candidates: candidates}

	criteria := core.Criteria{
		Extensions: cfg.Selection.DeviceExtensions,
		Queues:     queues,
	}
	if device, err := core.Select(candidates, criteria); err != nil {
		out.Reason = err.Error()
	} else if index, err := core.ResolveQueueFamily(device, queues, nil); err != nil {
		out.Reason = err.Error()
	} else {
		out.Chosen = &core.Result{Device: device, QueueFamilyIndex: index}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}
