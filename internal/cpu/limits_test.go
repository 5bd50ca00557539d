package cpu_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/cpuctl/internal/cpu"
)

func fakeSysfs(t *testing.T) *cpu.Sysfs {
	t.Helper()
	root := t.TempDir()

	return &cpu.Sysfs{
		CPURoot:     filepath.Join(root, "cpu"),
		HwmonRoot:   filepath.Join(root, "hwmon"),
		ThermalZone: filepath.Join(root, "thermal", "temp"),
		ProcCPUInfo: filepath.Join(root, "cpuinfo"),
	}
}

func writeFakeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// addCore creates a cpuN dir with a cpufreq interface and the given
// attribute files.
func addCore(t *testing.T, s *cpu.Sysfs, name string, attrs map[string]string) string {
	t.Helper()
	dir := filepath.Join(s.CPURoot, name, "cpufreq")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for attr, value := range attrs {
		writeFakeFile(t, filepath.Join(dir, attr), value+"\n")
	}

	return dir
}

func TestReadLimits(t *testing.T) {
	s := fakeSysfs(t)
	addCore(t, s, "cpu0", map[string]string{
		"cpuinfo_min_freq": "800000",
		"cpuinfo_max_freq": "4100000",
		"base_frequency":   "2400000",
	})

	limits := s.ReadLimits()

	assert.Equal(t, int64(800000), limits.MinKHz)
	assert.Equal(t, int64(4100000), limits.MaxKHz)
	assert.Equal(t, int64(2400000), limits.BaseKHz)
	assert.True(t, limits.Bounded())
}

func TestReadLimitsUnreadableDefaultsPermissive(t *testing.T) {
	s := fakeSysfs(t)

	limits := s.ReadLimits()

	assert.Equal(t, int64(0), limits.MinKHz, "Expected min to default to 0")
	assert.Equal(t, cpu.UnboundedKHz, limits.MaxKHz, "Expected max to default to unbounded")
	assert.False(t, limits.Bounded())
	assert.True(t, limits.Contains(0))
	assert.True(t, limits.Contains(99_000_000_000), "Unbounded max accepts any non-negative frequency")
	assert.False(t, limits.Contains(-1))
}

func TestReadLimitsBaseFromModelString(t *testing.T) {
	s := fakeSysfs(t)
	addCore(t, s, "cpu0", map[string]string{
		"cpuinfo_min_freq": "800000",
		"cpuinfo_max_freq": "4100000",
	})
	writeFakeFile(t, s.ProcCPUInfo, "processor\t: 0\nmodel name\t: Intel(R) Core(TM) i7-8550U CPU @ 2.40GHz\n")

	limits := s.ReadLimits()

	assert.Equal(t, int64(2400000), limits.BaseKHz)
}

func TestReadLimitsBaseMidpointFallback(t *testing.T) {
	s := fakeSysfs(t)
	addCore(t, s, "cpu0", map[string]string{
		"cpuinfo_min_freq": "800000",
		"cpuinfo_max_freq": "4000000",
	})

	limits := s.ReadLimits()

	assert.Equal(t, int64(2400000), limits.BaseKHz)
}

func TestLimitsContainsBoundariesInclusive(t *testing.T) {
	limits := cpu.Limits{MinKHz: 800000, MaxKHz: 4100000}

	assert.True(t, limits.Contains(800000), "Expected min itself accepted")
	assert.True(t, limits.Contains(4100000), "Expected max itself accepted")
	assert.True(t, limits.Contains(3200000))
	assert.False(t, limits.Contains(799999))
	assert.False(t, limits.Contains(4100001))
}

func TestCoresSkipsMissingCpufreq(t *testing.T) {
	s := fakeSysfs(t)
	addCore(t, s, "cpu0", nil)
	addCore(t, s, "cpu2", nil)
	addCore(t, s, "cpu10", nil)
	// cpu1 has no cpufreq interface
	require.NoError(t, os.MkdirAll(filepath.Join(s.CPURoot, "cpu1"), 0o755))
	// non-core entries are ignored
	require.NoError(t, os.MkdirAll(filepath.Join(s.CPURoot, "cpufreq"), 0o755))

	cores, err := s.Cores()
	require.NoError(t, err)

	names := make([]string, 0, len(cores))
	for _, core := range cores {
		names = append(names, core.Name)
	}
	assert.Equal(t, []string{"cpu0", "cpu2", "cpu10"}, names, "Expected numeric ordering")
}

func TestDetect(t *testing.T) {
	s := fakeSysfs(t)
	addCore(t, s, "cpu0", map[string]string{
		"cpuinfo_min_freq":            "800000",
		"cpuinfo_max_freq":            "4100000",
		"scaling_driver":              "intel_pstate",
		"scaling_available_governors": "performance powersave",
	})
	addCore(t, s, "cpu1", nil)
	writeFakeFile(t, s.ProcCPUInfo, "model name\t: Fake CPU @ 3.20GHz\n")

	info := s.Detect()

	assert.Equal(t, "Fake CPU @ 3.20GHz", info.Model)
	assert.Equal(t, "intel_pstate", info.Driver)
	assert.Equal(t, 2, info.OnlineCores)
	assert.Equal(t, []string{"performance", "powersave"}, info.Governors)
	assert.Equal(t, int64(800000), info.Limits.MinKHz)
}

func TestDetectUnreadableFallbacks(t *testing.T) {
	s := fakeSysfs(t)

	info := s.Detect()

	assert.Equal(t, "Unknown CPU", info.Model)
	assert.Equal(t, "unknown", info.Driver)
	assert.Equal(t, 0, info.OnlineCores)
	assert.Equal(t, []string{"powersave", "performance"}, info.Governors)
}
