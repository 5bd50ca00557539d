package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/cpuctl/internal/errors"
)

const (
	helperTimeout = 30 * time.Second

	// pkexec exits 126 when the user dismisses the authentication
	// prompt.
	pkexecDismissedCode = 126
)

var setFreqCmd = &cobra.Command{
	Use:   "set-freq <khz>",
	Short: "Cap the maximum CPU frequency (elevated)",
	Args:  cobra.ExactArgs(1),
	RunE:  forwardToHelper("set-freq"),
}

var setProfileCmd = &cobra.Command{
	Use:   "set-profile <battery|balanced|performance>",
	Short: "Apply a legacy named profile (elevated)",
	Args:  cobra.ExactArgs(1),
	RunE:  forwardToHelper("set-profile"),
}

var setUndervoltCmd = &cobra.Command{
	Use:   "set-undervolt <offset_mv>",
	Short: "Set the CPU undervolt offset (elevated)",
	Args:  cobra.ExactArgs(1),
	// The offset argument is negative; flag parsing would eat it as a
	// shorthand flag.
	DisableFlagParsing: true,
	RunE:               forwardToHelper("set-undervolt"),
}

var setGPUCmd = &cobra.Command{
	Use:   "set-gpu <integrated|hybrid|nvidia>",
	Short: "Switch the discrete GPU routing mode (elevated)",
	Args:  cobra.ExactArgs(1),
	RunE:  forwardToHelper("set-gpu"),
}

// forwardToHelper builds a RunE that invokes the privileged helper once
// with the given command and the user's arguments, then relays its
// single confirmation line. All validation happens on the helper side,
// against freshly read hardware state.
func forwardToHelper(helperCommand string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		output, err := runHelper(cmd.Context(), append([]string{helperCommand}, args...)...)
		if err != nil {
			return err
		}

		fmt.Println(output)

		return nil
	}
}

// runHelper invokes the helper under pkexec and waits for its terminal
// outcome. Once dispatched the command is not cancellable; the timeout
// here only bounds how long the dispatcher waits.
func runHelper(ctx context.Context, args ...string) (string, error) {
	errFactory := errors.New()

	helper, err := findHelper()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, helperTimeout)
	defer cancel()

	pkexecArgs := append([]string{helper}, args...)
	invocation := exec.CommandContext(ctx, "pkexec", pkexecArgs...)

	var stdout, stderr bytes.Buffer
	invocation.Stdout = &stdout
	invocation.Stderr = &stderr

	runErr := invocation.Run()
	if runErr == nil {
		return strings.TrimSpace(stdout.String()), nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", errFactory.WithMessage(errors.ErrHelperInvoke, "operation timed out")
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && exitErr.ExitCode() == pkexecDismissedCode {
		return "", errFactory.New(errors.ErrAuthDismissed)
	}

	message := strings.TrimSpace(stderr.String())
	if message == "" {
		message = strings.TrimSpace(stdout.String())
	}
	if message == "" {
		message = runErr.Error()
	}

	return "", errFactory.WithMessage(errors.ErrOperationFailed, message)
}

// findHelper locates the privileged helper binary: the configured path
// first, then a sibling of the current executable.
func findHelper() (string, error) {
	errFactory := errors.New()

	candidates := []string{cfg.HelperPath}
	if self, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(self), "cpuctl-helper"))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}

	return "", errFactory.WithMessage(errors.ErrHelperInvoke, "privileged helper not found")
}
