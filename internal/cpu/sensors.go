package cpu

import (
	"os"
	"path/filepath"
)

// Snapshot is one non-blocking sensor read for display. A zero Cores or
// false TempOK means "unknown for this tick", never an error.
type Snapshot struct {
	AvgFreqKHz int64
	Cores      int
	TempC      float64
	TempOK     bool
}

// ReadSnapshot gathers the live frequency average and temperature. It
// shares no mutable state with the privileged write path.
func (s *Sysfs) ReadSnapshot() Snapshot {
	var snapshot Snapshot

	snapshot.AvgFreqKHz, snapshot.Cores = s.averageFrequency()
	snapshot.TempC, snapshot.TempOK = s.Temperature()

	return snapshot
}

// averageFrequency averages scaling_cur_freq across every core that
// reports one.
func (s *Sysfs) averageFrequency() (int64, int) {
	cores, err := s.Cores()
	if err != nil {
		return 0, 0
	}

	var sum int64
	var n int
	for _, core := range cores {
		if v, ok := s.readInt(filepath.Join(core.Path, "scaling_cur_freq")); ok {
			sum += v
			n++
		}
	}

	if n == 0 {
		return 0, 0
	}

	return sum / int64(n), n
}

// Temperature reads the package temperature in degrees Celsius. It
// prefers the coretemp (Intel) and k10temp (AMD) hwmon sensors and
// falls back to thermal_zone0.
func (s *Sysfs) Temperature() (float64, bool) {
	if entries, err := os.ReadDir(s.HwmonRoot); err == nil {
		for _, entry := range entries {
			name, ok := s.readString(filepath.Join(s.HwmonRoot, entry.Name(), "name"))
			if !ok || (name != "coretemp" && name != "k10temp") {
				continue
			}
			if v, ok := s.readInt(filepath.Join(s.HwmonRoot, entry.Name(), "temp1_input")); ok {
				return float64(v) / 1000, true
			}
		}
	}

	if v, ok := s.readInt(s.ThermalZone); ok {
		return float64(v) / 1000, true
	}

	return 0, false
}
