package apply

import (
	"context"
	"fmt"
	"os"
	"strings"

	"codeberg.org/mutker/cpuctl/internal/errors"
	"codeberg.org/mutker/cpuctl/internal/logger"
)

// RenderUndervoltConfig produces the full config document for the given
// offset. The offset applies identically to the CPU core and CPU cache
// voltage domains; the remaining domains stay at zero. The rewrite is a
// full-file replace, so prior content never influences the result.
func RenderUndervoltConfig(offsetMV int64) string {
	return fmt.Sprintf(`# Generated by cpuctl. Manual edits are overwritten.

undervolt 0 'CPU' %d
undervolt 1 'GPU' 0
undervolt 2 'CPU Cache' %d
undervolt 3 'System Agent' 0
undervolt 4 'Analog I/O' 0

interval 5000
`, offsetMV, offsetMV)
}

// SetUndervolt rewrites the undervolt config and synchronously runs the
// external apply tool. The two steps have independently observable
// outcomes: if the apply invocation fails, the new file content stays
// in place, so the on-disk description always reflects the last
// accepted request even when the running voltage does not.
func (a *Applier) SetUndervolt(ctx context.Context, offsetMV int64) error {
	errFactory := errors.New()

	if err := os.WriteFile(a.undervoltConfig, []byte(RenderUndervoltConfig(offsetMV)), 0o644); err != nil {
		return errFactory.Wrap(errors.ErrIOFailure, err)
	}
	logger.Debug().Str("path", a.undervoltConfig).Int64("offset_mv", offsetMV).Msg("undervolt config rewritten")

	if out, err := a.runner.Run(ctx, a.undervoltTool, "apply"); err != nil {
		return errFactory.WithMessage(errors.ErrExternalTool,
			fmt.Sprintf("%s apply failed (config file was updated): %v: %s",
				a.undervoltTool, err, strings.TrimSpace(string(out))))
	}

	logger.Info().Int64("offset_mv", offsetMV).Msg("undervolt applied")

	return nil
}
