package cpu

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Sysfs points at the kernel interfaces consumed by the read-only side.
// Paths are fields so tests can aim the whole package at a temp dir.
type Sysfs struct {
	CPURoot     string
	HwmonRoot   string
	ThermalZone string
	ProcCPUInfo string
}

func Default() *Sysfs {
	return &Sysfs{
		CPURoot:     "/sys/devices/system/cpu",
		HwmonRoot:   "/sys/class/hwmon",
		ThermalZone: "/sys/class/thermal/thermal_zone0/temp",
		ProcCPUInfo: "/proc/cpuinfo",
	}
}

var coreDirPattern = regexp.MustCompile(`^cpu[0-9]+$`)

// Core is one per-core cpufreq interface directory.
type Core struct {
	Name string // "cpu0", "cpu1", ...
	Path string // .../cpu0/cpufreq
}

// Cores returns every core that exposes a cpufreq interface, ordered by
// core number. Not every core path is guaranteed present on
// heterogeneous hardware.
func (s *Sysfs) Cores() ([]Core, error) {
	entries, err := os.ReadDir(s.CPURoot)
	if err != nil {
		return nil, err
	}

	var cores []Core
	for _, entry := range entries {
		if !coreDirPattern.MatchString(entry.Name()) {
			continue
		}
		cpufreq := filepath.Join(s.CPURoot, entry.Name(), "cpufreq")
		if info, err := os.Stat(cpufreq); err != nil || !info.IsDir() {
			continue
		}
		cores = append(cores, Core{Name: entry.Name(), Path: cpufreq})
	}

	sort.Slice(cores, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(cores[i].Name, "cpu"))
		b, _ := strconv.Atoi(strings.TrimPrefix(cores[j].Name, "cpu"))
		return a < b
	})

	return cores, nil
}

func (s *Sysfs) readString(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return strings.TrimSpace(string(data)), true
}

func (s *Sysfs) readInt(path string) (int64, bool) {
	raw, ok := s.readString(path)
	if !ok {
		return 0, false
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}
