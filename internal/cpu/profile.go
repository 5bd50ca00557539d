package cpu

import (
	"fmt"
	"math"
	"sort"
)

type ProfileKey string

const (
	PowerSaver  ProfileKey = "powersaver"
	Low         ProfileKey = "low"
	Balanced    ProfileKey = "balanced"
	High        ProfileKey = "high"
	Performance ProfileKey = "performance"
)

// Profile is a named operating point derived from the hardware limits.
// Profiles are advisory: they drive display and selection, never
// validation.
type Profile struct {
	Key   ProfileKey
	Label string
	KHz   int64
}

const (
	// Derivation fallbacks for unreadable limits, matching common
	// laptop hardware.
	fallbackMinKHz = 800_000
	fallbackMaxKHz = 4_000_000

	// Profiles within the same 100 MHz bucket are near-duplicates.
	bucketKHz = 100_000
)

// specificity ranks profile names for near-duplicate collapsing: a
// base-anchored point beats a hardware-limit anchor, which beats an
// interpolated point.
var specificity = map[ProfileKey]int{
	Balanced:    3,
	PowerSaver:  2,
	Performance: 2,
	Low:         1,
	High:        1,
}

// DeriveProfiles computes the ordered operating points for the given
// limits: PowerSaver at the hardware minimum, Low and High at the 25%
// and 75% marks, Balanced at the base frequency (or the 25% mark when
// base is unknown), Performance at the hardware maximum. Consecutive
// near-duplicates collapse into the more specific name. The result is
// strictly ascending, at most five entries, and recomputed eagerly on
// every call.
func DeriveProfiles(limits Limits) []Profile {
	lo := limits.MinKHz
	if lo <= 0 {
		lo = fallbackMinKHz
	}

	hi := limits.MaxKHz
	if !limits.Bounded() || hi <= 0 {
		hi = fallbackMaxKHz
	}
	if hi < lo {
		hi = lo
	}

	span := hi - lo

	balanced := limits.BaseKHz
	if balanced <= 0 {
		balanced = lo + span/4
	}

	candidates := []Profile{
		newProfile(PowerSaver, lo),
		newProfile(Low, lo+span/4),
		newProfile(Balanced, balanced),
		newProfile(High, lo+3*span/4),
		newProfile(Performance, hi),
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].KHz < candidates[j].KHz
	})

	var profiles []Profile
	for _, candidate := range candidates {
		if len(profiles) == 0 {
			profiles = append(profiles, candidate)
			continue
		}

		last := &profiles[len(profiles)-1]
		if bucket(candidate.KHz) != bucket(last.KHz) {
			profiles = append(profiles, candidate)
			continue
		}

		if specificity[candidate.Key] > specificity[last.Key] {
			*last = candidate
		}
	}

	return profiles
}

func newProfile(key ProfileKey, khz int64) Profile {
	return Profile{
		Key:   key,
		Label: fmt.Sprintf("%s (%s)", displayName(key), FormatGHz(khz)),
		KHz:   khz,
	}
}

func bucket(khz int64) int64 {
	return (khz + bucketKHz/2) / bucketKHz
}

func displayName(key ProfileKey) string {
	switch key {
	case PowerSaver:
		return "Power Saver"
	case Low:
		return "Low"
	case Balanced:
		return "Balanced"
	case High:
		return "High"
	case Performance:
		return "Performance"
	default:
		return string(key)
	}
}

// FormatGHz renders a kHz value the way it is shown to users.
func FormatGHz(khz int64) string {
	ghz := float64(khz) / 1_000_000
	if ghz == math.Trunc(ghz) {
		return fmt.Sprintf("%.1f GHz", ghz)
	}

	return fmt.Sprintf("%.2f GHz", ghz)
}
