package command

import (
	"strconv"

	"codeberg.org/mutker/cpuctl/internal/errors"
)

// Command is the closed set of privileged actions. Each variant carries
// exactly the data its applier needs; the entry point matches
// exhaustively and rejects anything else.
type Command interface {
	isCommand()
}

// SetFrequency caps the maximum scaling frequency on every core.
type SetFrequency struct {
	KHz int64
}

// SetUndervolt rewrites the undervolt config and applies it.
type SetUndervolt struct {
	OffsetMV int64
}

// SetGPUMode switches the discrete GPU routing mode.
type SetGPUMode struct {
	Mode GPUMode
}

func (SetFrequency) isCommand() {}
func (SetUndervolt) isCommand() {}
func (SetGPUMode) isCommand()   {}

// GPUMode is matched case-sensitively against the three accepted
// literals; no normalization is applied.
type GPUMode string

const (
	Integrated GPUMode = "integrated"
	Hybrid     GPUMode = "hybrid"
	Nvidia     GPUMode = "nvidia"
)

func (m GPUMode) Valid() bool {
	switch m {
	case Integrated, Hybrid, Nvidia:
		return true
	default:
		return false
	}
}

// Undervolt offsets outside [-200, 0] mV risk hardware instability and
// are never accepted.
const (
	MinUndervoltMV int64 = -200
	MaxUndervoltMV int64 = 0
)

// Legacy named profiles map to fixed frequencies and route through the
// identical frequency apply path.
var profileFrequencies = map[string]int64{
	"battery":     2_400_000,
	"balanced":    3_200_000,
	"performance": 4_100_000,
}

// ProfileFrequency resolves a legacy profile name to its fixed
// frequency in kHz.
func ProfileFrequency(name string) (int64, bool) {
	khz, ok := profileFrequencies[name]
	return khz, ok
}

// ParseFrequency turns a positional argument into a SetFrequency
// command. Anything that is not a non-negative integer is malformed.
func ParseFrequency(arg string) (SetFrequency, error) {
	errFactory := errors.New()

	khz, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || khz < 0 {
		return SetFrequency{}, errFactory.WithMessage(errors.ErrMalformedInput,
			"frequency must be a non-negative integer in kHz, got "+strconv.Quote(arg))
	}

	return SetFrequency{KHz: khz}, nil
}

// ParseUndervolt turns a positional argument into a SetUndervolt
// command. Range checking is the validator's job.
func ParseUndervolt(arg string) (SetUndervolt, error) {
	errFactory := errors.New()

	offset, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return SetUndervolt{}, errFactory.WithMessage(errors.ErrMalformedInput,
			"undervolt offset must be an integer in mV, got "+strconv.Quote(arg))
	}

	return SetUndervolt{OffsetMV: offset}, nil
}
