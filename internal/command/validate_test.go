package command_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/cpuctl/internal/command"
	"codeberg.org/mutker/cpuctl/internal/cpu"
	"codeberg.org/mutker/cpuctl/internal/errors"
)

func fakeSysfs(t *testing.T, minKHz, maxKHz string) *cpu.Sysfs {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "cpu0", "cpufreq")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if minKHz != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cpuinfo_min_freq"), []byte(minKHz), 0o644))
	}
	if maxKHz != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cpuinfo_max_freq"), []byte(maxKHz), 0o644))
	}

	return &cpu.Sysfs{
		CPURoot:     root,
		HwmonRoot:   filepath.Join(root, "hwmon"),
		ThermalZone: filepath.Join(root, "thermal"),
		ProcCPUInfo: filepath.Join(root, "cpuinfo"),
	}
}

func toolPresent(string) (string, error) { return "/usr/bin/tool", nil }

func toolAbsent(string) (string, error) { return "", os.ErrNotExist }

func pathPresent(string) (fs.FileInfo, error) { return os.Stat(os.TempDir()) }

func pathAbsent(string) (fs.FileInfo, error) { return nil, os.ErrNotExist }

func newValidator(t *testing.T, s *cpu.Sysfs, lookPath func(string) (string, error), stat func(string) (fs.FileInfo, error)) *command.Validator {
	t.Helper()

	return command.NewValidator(s, "intel-undervolt", "/etc/intel-undervolt.conf", "envycontrol",
		command.WithLookPath(lookPath), command.WithStat(stat))
}

func TestValidateFrequencyBounds(t *testing.T) {
	s := fakeSysfs(t, "800000", "4100000")
	v := newValidator(t, s, toolPresent, pathPresent)

	tests := []struct {
		name string
		khz  int64
		ok   bool
	}{
		{"below min", 799999, false},
		{"min boundary", 800000, true},
		{"inside range", 3200000, true},
		{"max boundary", 4100000, true},
		{"above max", 4100001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(command.SetFrequency{KHz: tt.khz})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, errors.ErrOutOfRange, errors.CodeOf(err))
			}
		})
	}
}

func TestValidateFrequencyMessageReportsValueAndBounds(t *testing.T) {
	s := fakeSysfs(t, "800000", "4100000")
	v := newValidator(t, s, toolPresent, pathPresent)

	err := v.Validate(command.SetFrequency{KHz: 5000000})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "5000000")
	assert.Contains(t, err.Error(), "800000")
	assert.Contains(t, err.Error(), "4100000")
}

func TestValidateFrequencyUnboundedMax(t *testing.T) {
	s := fakeSysfs(t, "", "")
	v := newValidator(t, s, toolPresent, pathPresent)

	assert.NoError(t, v.Validate(command.SetFrequency{KHz: 9_000_000_000}),
		"Expected unbounded max to accept any non-negative frequency")
	assert.Error(t, v.Validate(command.SetFrequency{KHz: -1}))
}

func TestValidateUndervolt(t *testing.T) {
	s := fakeSysfs(t, "800000", "4100000")

	tests := []struct {
		name     string
		offset   int64
		lookPath func(string) (string, error)
		stat     func(string) (fs.FileInfo, error)
		wantCode errors.ErrorCode
	}{
		{"zero accepted", 0, toolPresent, pathPresent, ""},
		{"lower boundary accepted", -200, toolPresent, pathPresent, ""},
		{"typical preset accepted", -100, toolPresent, pathPresent, ""},
		{"below range", -201, toolPresent, pathPresent, errors.ErrOutOfRange},
		{"positive offset", 1, toolPresent, pathPresent, errors.ErrOutOfRange},
		{"range checked before tool", -250, toolAbsent, pathAbsent, errors.ErrOutOfRange},
		{"tool missing", -100, toolAbsent, pathPresent, errors.ErrToolMissing},
		{"config missing", -100, toolPresent, pathAbsent, errors.ErrConfigMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(t, s, tt.lookPath, tt.stat)
			err := v.Validate(command.SetUndervolt{OffsetMV: tt.offset})
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			}
		})
	}
}

func TestValidateGPUMode(t *testing.T) {
	s := fakeSysfs(t, "800000", "4100000")
	v := newValidator(t, s, toolPresent, pathPresent)

	for _, mode := range []command.GPUMode{command.Integrated, command.Hybrid, command.Nvidia} {
		assert.NoError(t, v.Validate(command.SetGPUMode{Mode: mode}))
	}

	rejected := []string{"", "Nvidia", "NVIDIA", "Integrated", "discrete", "hybrid ", "nvidia\n"}
	for _, mode := range rejected {
		err := v.Validate(command.SetGPUMode{Mode: command.GPUMode(mode)})
		require.Error(t, err, "Expected rejection for %q", mode)
		assert.Equal(t, errors.ErrInvalidMode, errors.CodeOf(err))
	}
}

func TestValidateGPUModeToolMissing(t *testing.T) {
	s := fakeSysfs(t, "800000", "4100000")
	v := newValidator(t, s, toolAbsent, pathPresent)

	err := v.Validate(command.SetGPUMode{Mode: command.Nvidia})

	require.Error(t, err)
	assert.Equal(t, errors.ErrToolMissing, errors.CodeOf(err))
}

func TestParseFrequency(t *testing.T) {
	c, err := command.ParseFrequency("3200000")
	require.NoError(t, err)
	assert.Equal(t, int64(3200000), c.KHz)

	for _, bad := range []string{"", "abc", "3.2", "-1"} {
		_, err := command.ParseFrequency(bad)
		require.Error(t, err, "Expected malformed input for %q", bad)
		assert.Equal(t, errors.ErrMalformedInput, errors.CodeOf(err))
	}
}

func TestParseUndervolt(t *testing.T) {
	c, err := command.ParseUndervolt("-100")
	require.NoError(t, err)
	assert.Equal(t, int64(-100), c.OffsetMV)

	_, err = command.ParseUndervolt("light")
	require.Error(t, err)
	assert.Equal(t, errors.ErrMalformedInput, errors.CodeOf(err))
}

func TestProfileFrequency(t *testing.T) {
	tests := []struct {
		name string
		khz  int64
	}{
		{"battery", 2400000},
		{"balanced", 3200000},
		{"performance", 4100000},
	}

	for _, tt := range tests {
		khz, ok := command.ProfileFrequency(tt.name)
		require.True(t, ok)
		assert.Equal(t, tt.khz, khz)
	}

	_, ok := command.ProfileFrequency("turbo")
	assert.False(t, ok)
}
