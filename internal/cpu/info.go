package cpu

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Info describes the detected CPU for display purposes.
type Info struct {
	Model       string
	Driver      string
	OnlineCores int
	Governors   []string
	Limits      Limits
}

// Detect gathers the CPU capabilities exposed by sysfs and procfs.
// Every field degrades to a safe placeholder when unreadable.
func (s *Sysfs) Detect() Info {
	info := Info{
		Model:  s.Model(),
		Driver: "unknown",
		Limits: s.ReadLimits(),
	}

	first := s.firstCoreDir()
	if driver, ok := s.readString(filepath.Join(first, "scaling_driver")); ok {
		info.Driver = driver
	}

	if governors, ok := s.readString(filepath.Join(first, "scaling_available_governors")); ok {
		info.Governors = strings.Fields(governors)
	} else {
		info.Governors = []string{"powersave", "performance"}
	}

	if cores, err := s.Cores(); err == nil {
		info.OnlineCores = len(cores)
	}

	return info
}

// Model returns the CPU model name from /proc/cpuinfo.
func (s *Sysfs) Model() string {
	f, err := os.Open(s.ProcCPUInfo)
	if err != nil {
		return "Unknown CPU"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "model name") {
			if _, value, found := strings.Cut(line, ":"); found {
				return strings.TrimSpace(value)
			}
		}
	}

	return "Unknown CPU"
}
