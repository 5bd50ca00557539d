package apply

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/mutker/cpuctl/internal/command"
	"codeberg.org/mutker/cpuctl/internal/errors"
	"codeberg.org/mutker/cpuctl/internal/logger"
)

// SetGPUMode invokes the external switching tool synchronously with the
// validated mode as its single, verbatim argument. A mode switch
// usually needs a reboot to take effect; that is surfaced as advice,
// not verified here.
func (a *Applier) SetGPUMode(ctx context.Context, mode command.GPUMode) error {
	errFactory := errors.New()

	if out, err := a.runner.Run(ctx, a.gpuTool, string(mode)); err != nil {
		return errFactory.WithMessage(errors.ErrExternalTool,
			fmt.Sprintf("%s %s failed: %v: %s",
				a.gpuTool, mode, err, strings.TrimSpace(string(out))))
	}

	logger.Info().Str("mode", string(mode)).Msg("GPU mode switched")

	return nil
}
