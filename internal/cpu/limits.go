package cpu

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"

	"codeberg.org/mutker/cpuctl/internal/logger"
)

// UnboundedKHz is the sentinel maximum used when the hardware limit is
// unreadable. Validation against it degrades to accepting any
// non-negative frequency.
const UnboundedKHz = int64(math.MaxInt64)

// Limits are the hardware frequency bounds of the first available core.
// They are re-read from live kernel state on every validation and never
// cached across the privilege boundary.
type Limits struct {
	MinKHz  int64
	MaxKHz  int64
	BaseKHz int64 // 0 when unknown
}

func (l Limits) Bounded() bool {
	return l.MaxKHz != UnboundedKHz
}

// Contains reports whether khz is a non-negative frequency within the
// hardware bounds. Min and max themselves are accepted.
func (l Limits) Contains(khz int64) bool {
	if khz < 0 || khz < l.MinKHz {
		return false
	}

	return !l.Bounded() || khz <= l.MaxKHz
}

// ReadLimits reads the hardware frequency limits from the first core
// that exposes a cpufreq interface. Unreadable values fall back to
// permissive defaults (0 and UnboundedKHz) rather than failing, so
// frequency control keeps working when limits are transiently
// unreadable. Pure read, no elevation required.
func (s *Sysfs) ReadLimits() Limits {
	limits := Limits{MinKHz: 0, MaxKHz: UnboundedKHz}

	dir := s.firstCoreDir()

	if v, ok := s.readInt(filepath.Join(dir, "cpuinfo_min_freq")); ok {
		limits.MinKHz = v
	} else {
		logger.Warn().Str("path", dir).Msg("hardware min frequency unreadable, defaulting to 0")
	}

	if v, ok := s.readInt(filepath.Join(dir, "cpuinfo_max_freq")); ok {
		limits.MaxKHz = v
	} else {
		logger.Warn().Str("path", dir).Msg("hardware max frequency unreadable, defaulting to unbounded")
	}

	limits.BaseKHz = s.detectBaseKHz(dir, limits)

	return limits
}

var modelGHzPattern = regexp.MustCompile(`@\s*([\d.]+)\s*GHz`)

// detectBaseKHz tries the base_frequency attribute, then the rated
// frequency embedded in the model string, then the min/max midpoint.
func (s *Sysfs) detectBaseKHz(dir string, limits Limits) int64 {
	if v, ok := s.readInt(filepath.Join(dir, "base_frequency")); ok && v > 0 {
		return v
	}

	if match := modelGHzPattern.FindStringSubmatch(s.Model()); match != nil {
		if ghz, err := strconv.ParseFloat(match[1], 64); err == nil && ghz > 0 {
			return int64(math.Round(ghz * 1_000_000))
		}
	}

	if limits.Bounded() && limits.MaxKHz > 0 {
		return (limits.MinKHz + limits.MaxKHz) / 2
	}

	return 0
}

func (s *Sysfs) firstCoreDir() string {
	cores, err := s.Cores()
	if err != nil || len(cores) == 0 {
		return filepath.Join(s.CPURoot, "cpu0", "cpufreq")
	}

	return cores[0].Path
}
