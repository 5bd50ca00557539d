// Package apply performs exactly one validated mutation per call. It
// runs only after validation succeeds and only in a privilege-elevated
// execution context; each command is a one-shot transaction with no
// in-progress state visible to the caller.
package apply

import (
	"codeberg.org/mutker/cpuctl/internal/cpu"
)

type Applier struct {
	sysfs  *cpu.Sysfs
	runner Runner

	governor        string
	undervoltTool   string
	undervoltConfig string
	gpuTool         string
}

func New(sysfs *cpu.Sysfs, runner Runner, governor, undervoltTool, undervoltConfig, gpuTool string) *Applier {
	return &Applier{
		sysfs:           sysfs,
		runner:          runner,
		governor:        governor,
		undervoltTool:   undervoltTool,
		undervoltConfig: undervoltConfig,
		gpuTool:         gpuTool,
	}
}
