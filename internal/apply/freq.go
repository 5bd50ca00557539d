package apply

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/cpuctl/internal/errors"
	"codeberg.org/mutker/cpuctl/internal/logger"
)

// CoreResult is the outcome of one per-core write attempt.
type CoreResult struct {
	Core string
	Err  error
}

// FreqResult collects the per-core outcomes of one frequency apply.
// Partial failure is an accepted, visible part of the contract, not an
// abort condition.
type FreqResult struct {
	KHz     int64
	Results []CoreResult
}

func (r FreqResult) Attempted() int {
	return len(r.Results)
}

func (r FreqResult) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}

	return n
}

// Message renders the single confirmation line for stdout.
func (r FreqResult) Message() string {
	if r.Succeeded() == r.Attempted() {
		return fmt.Sprintf("Max frequency set to %d kHz on all cores", r.KHz)
	}

	return fmt.Sprintf("Max frequency set to %d kHz on %d/%d cores",
		r.KHz, r.Succeeded(), r.Attempted())
}

// SetFrequency sets the scaling governor to the power-saving mode and
// caps the maximum scaling frequency on every core that exposes a
// cpufreq interface. Each per-core write is attempted independently:
// one core's failure never aborts the remaining cores. The operation
// fails only when no core could be written at all.
func (a *Applier) SetFrequency(khz int64) (FreqResult, error) {
	errFactory := errors.New()
	result := FreqResult{KHz: khz}

	cores, err := a.sysfs.Cores()
	if err != nil {
		return result, errFactory.Wrap(errors.ErrIOFailure, err)
	}
	if len(cores) == 0 {
		return result, errFactory.WithMessage(errors.ErrIOFailure,
			"no cpufreq interfaces found under "+a.sysfs.CPURoot)
	}

	for _, core := range cores {
		coreErr := a.applyCore(core.Path, khz)
		result.Results = append(result.Results, CoreResult{Core: core.Name, Err: coreErr})
		if coreErr != nil {
			logger.Warn().Str("core", core.Name).Err(coreErr).Msg("per-core frequency write failed")
		}
	}

	if result.Succeeded() == 0 {
		return result, errFactory.WithMessage(errors.ErrPartialWrite,
			fmt.Sprintf("frequency write failed on all %d cores", result.Attempted()))
	}

	logger.Info().
		Int64("khz", khz).
		Int("succeeded", result.Succeeded()).
		Int("attempted", result.Attempted()).
		Msg("max frequency applied")

	return result, nil
}

func (a *Applier) applyCore(dir string, khz int64) error {
	var firstErr error

	if err := writeSysfs(filepath.Join(dir, "scaling_governor"), a.governor); err != nil {
		firstErr = err
	}
	if err := writeSysfs(filepath.Join(dir, "scaling_max_freq"), strconv.FormatInt(khz, 10)); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

func writeSysfs(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}
