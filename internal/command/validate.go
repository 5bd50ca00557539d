package command

import (
	"fmt"
	"os"
	"os/exec"

	"codeberg.org/mutker/cpuctl/internal/cpu"
	"codeberg.org/mutker/cpuctl/internal/errors"
)

// Validator is the sole authority deciding whether a privileged action
// may proceed. It is stateless per call and re-reads the hardware
// limits through its own read-only accessor for every frequency
// command; bounds supplied by the caller are never trusted.
type Validator struct {
	sysfs           *cpu.Sysfs
	undervoltTool   string
	undervoltConfig string
	gpuTool         string

	// Hooks for tests; default to exec.LookPath and os.Stat.
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

type ValidatorOption func(*Validator)

func WithLookPath(lookPath func(string) (string, error)) ValidatorOption {
	return func(v *Validator) { v.lookPath = lookPath }
}

func WithStat(stat func(string) (os.FileInfo, error)) ValidatorOption {
	return func(v *Validator) { v.stat = stat }
}

func NewValidator(sysfs *cpu.Sysfs, undervoltTool, undervoltConfig, gpuTool string, opts ...ValidatorOption) *Validator {
	v := &Validator{
		sysfs:           sysfs,
		undervoltTool:   undervoltTool,
		undervoltConfig: undervoltConfig,
		gpuTool:         gpuTool,
		lookPath:        exec.LookPath,
		stat:            os.Stat,
	}
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate accepts or rejects one command. Rejection is terminal: no
// state has been touched and the applier must not run.
func (v *Validator) Validate(c Command) error {
	errFactory := errors.New()

	switch c := c.(type) {
	case SetFrequency:
		limits := v.sysfs.ReadLimits()
		if !limits.Contains(c.KHz) {
			return errFactory.WithMessage(errors.ErrOutOfRange,
				fmt.Sprintf("frequency %d kHz out of range [%s]", c.KHz, formatBounds(limits)))
		}

		return nil

	case SetUndervolt:
		if c.OffsetMV < MinUndervoltMV || c.OffsetMV > MaxUndervoltMV {
			return errFactory.WithMessage(errors.ErrOutOfRange,
				fmt.Sprintf("undervolt offset %d mV out of range [%d, %d]",
					c.OffsetMV, MinUndervoltMV, MaxUndervoltMV))
		}
		if _, err := v.lookPath(v.undervoltTool); err != nil {
			return errFactory.WithMessage(errors.ErrToolMissing,
				v.undervoltTool+" not found on this system")
		}
		if _, err := v.stat(v.undervoltConfig); err != nil {
			return errFactory.WithMessage(errors.ErrConfigMissing,
				v.undervoltConfig+" does not exist")
		}

		return nil

	case SetGPUMode:
		if !c.Mode.Valid() {
			return errFactory.WithMessage(errors.ErrInvalidMode,
				fmt.Sprintf("GPU mode %q is not one of integrated, hybrid, nvidia", string(c.Mode)))
		}
		if _, err := v.lookPath(v.gpuTool); err != nil {
			return errFactory.WithMessage(errors.ErrToolMissing,
				v.gpuTool+" not found on this system")
		}

		return nil

	default:
		return errFactory.New(errors.ErrInvalidArgument)
	}
}

func formatBounds(limits cpu.Limits) string {
	if !limits.Bounded() {
		return fmt.Sprintf("%d, unbounded", limits.MinKHz)
	}

	return fmt.Sprintf("%d, %d", limits.MinKHz, limits.MaxKHz)
}
