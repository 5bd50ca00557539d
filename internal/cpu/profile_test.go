package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/cpuctl/internal/cpu"
)

func TestDeriveProfilesFiveDistinct(t *testing.T) {
	limits := cpu.Limits{MinKHz: 800000, MaxKHz: 4100000, BaseKHz: 2400000}

	profiles := cpu.DeriveProfiles(limits)

	require.Len(t, profiles, 5)
	assert.Equal(t, cpu.PowerSaver, profiles[0].Key)
	assert.Equal(t, int64(800000), profiles[0].KHz)
	assert.Equal(t, cpu.Low, profiles[1].Key)
	assert.Equal(t, int64(1625000), profiles[1].KHz, "Expected the 25% mark")
	assert.Equal(t, cpu.Balanced, profiles[2].Key)
	assert.Equal(t, int64(2400000), profiles[2].KHz)
	assert.Equal(t, cpu.High, profiles[3].Key)
	assert.Equal(t, int64(3275000), profiles[3].KHz, "Expected the 75% mark")
	assert.Equal(t, cpu.Performance, profiles[4].Key)
	assert.Equal(t, int64(4100000), profiles[4].KHz)
}

func TestDeriveProfilesCollapsesBaseEqualMin(t *testing.T) {
	limits := cpu.Limits{MinKHz: 2400000, MaxKHz: 4100000, BaseKHz: 2400000}

	profiles := cpu.DeriveProfiles(limits)

	// PowerSaver and Balanced coincide; the base-anchored name wins.
	require.Len(t, profiles, 4)
	assert.Equal(t, cpu.Balanced, profiles[0].Key)
	assert.Equal(t, int64(2400000), profiles[0].KHz)
	for _, profile := range profiles {
		assert.NotEqual(t, cpu.PowerSaver, profile.Key)
	}
}

func TestDeriveProfilesBaseUnknownFollowsLow(t *testing.T) {
	limits := cpu.Limits{MinKHz: 800000, MaxKHz: 4000000}

	profiles := cpu.DeriveProfiles(limits)

	// Balanced falls back to the 25% mark and collapses into one entry
	// with Low; Balanced is the more specific name.
	require.Len(t, profiles, 4)
	assert.Equal(t, cpu.Balanced, profiles[1].Key)
	assert.Equal(t, int64(1600000), profiles[1].KHz)
}

func TestDeriveProfilesStrictlyAscending(t *testing.T) {
	cases := []cpu.Limits{
		{MinKHz: 800000, MaxKHz: 4100000, BaseKHz: 2400000},
		{MinKHz: 2400000, MaxKHz: 4100000, BaseKHz: 2400000},
		{MinKHz: 400000, MaxKHz: 5450000, BaseKHz: 3800000},
		{MinKHz: 1200000, MaxKHz: 1300000, BaseKHz: 1250000},
		{MinKHz: 0, MaxKHz: cpu.UnboundedKHz},
	}

	for _, limits := range cases {
		profiles := cpu.DeriveProfiles(limits)
		require.NotEmpty(t, profiles)
		assert.LessOrEqual(t, len(profiles), 5)
		for i := 1; i < len(profiles); i++ {
			assert.Greater(t, profiles[i].KHz, profiles[i-1].KHz,
				"Expected strictly ascending frequencies for %+v", limits)
		}
	}
}

func TestDeriveProfilesIdempotent(t *testing.T) {
	limits := cpu.Limits{MinKHz: 800000, MaxKHz: 4100000, BaseKHz: 2400000}

	first := cpu.DeriveProfiles(limits)
	second := cpu.DeriveProfiles(limits)

	assert.Equal(t, first, second)
}

func TestDeriveProfilesUnreadableLimitsUseFallbacks(t *testing.T) {
	profiles := cpu.DeriveProfiles(cpu.Limits{MinKHz: 0, MaxKHz: cpu.UnboundedKHz})

	require.NotEmpty(t, profiles)
	assert.Equal(t, int64(800000), profiles[0].KHz, "Expected derivation fallback minimum")
	assert.Equal(t, int64(4000000), profiles[len(profiles)-1].KHz, "Expected derivation fallback maximum")
}

func TestFormatGHz(t *testing.T) {
	assert.Equal(t, "4.0 GHz", cpu.FormatGHz(4000000))
	assert.Equal(t, "2.40 GHz", cpu.FormatGHz(2400000))
	assert.Equal(t, "0.80 GHz", cpu.FormatGHz(800000))
}
