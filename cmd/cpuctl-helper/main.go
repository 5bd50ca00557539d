// cpuctl-helper is the privileged entry point. It is invoked under
// elevation (pkexec) with one positional command per request, validates
// the request against live hardware state, performs the single
// validated mutation, and exits. Success prints one confirmation line
// to stdout; every failure prints one line to stderr and exits
// non-zero.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/cpuctl/internal/apply"
	"codeberg.org/mutker/cpuctl/internal/command"
	"codeberg.org/mutker/cpuctl/internal/config"
	"codeberg.org/mutker/cpuctl/internal/cpu"
	"codeberg.org/mutker/cpuctl/internal/errors"
	"codeberg.org/mutker/cpuctl/internal/logger"
)

var (
	cfg       *config.Config
	validator *command.Validator
	applier   *apply.Applier
)

var rootCmd = &cobra.Command{
	Use:               "cpuctl-helper",
	Short:             "Privileged applier for cpuctl",
	Long:              "cpuctl-helper validates and applies CPU frequency, undervolt and GPU mode changes.\nIt is meant to be invoked through pkexec by the cpuctl dispatcher, once per request.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var setFreqCmd = &cobra.Command{
	Use:   "set-freq <khz>",
	Short: "Cap the maximum scaling frequency on every core",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := command.ParseFrequency(args[0])
		if err != nil {
			return err
		}

		return applyFrequency(c)
	},
}

var setProfileCmd = &cobra.Command{
	Use:   "set-profile <battery|balanced|performance>",
	Short: "Apply a legacy named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		errFactory := errors.New()

		khz, ok := command.ProfileFrequency(args[0])
		if !ok {
			return errFactory.WithMessage(errors.ErrMalformedInput,
				fmt.Sprintf("unknown profile %q, expected battery, balanced or performance", args[0]))
		}

		return applyFrequency(command.SetFrequency{KHz: khz})
	},
}

var setUndervoltCmd = &cobra.Command{
	Use:   "set-undervolt <offset_mv>",
	Short: "Rewrite the undervolt config and apply it",
	Args:  cobra.ExactArgs(1),
	// The offset argument is negative; flag parsing would eat it as a
	// shorthand flag.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := command.ParseUndervolt(args[0])
		if err != nil {
			return err
		}
		if err := validator.Validate(c); err != nil {
			return err
		}
		if err := applier.SetUndervolt(cmd.Context(), c.OffsetMV); err != nil {
			return err
		}

		fmt.Printf("Undervolt offset set to %d mV\n", c.OffsetMV)

		return nil
	},
}

var setGPUCmd = &cobra.Command{
	Use:   "set-gpu <integrated|hybrid|nvidia>",
	Short: "Switch the discrete GPU routing mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := command.SetGPUMode{Mode: command.GPUMode(args[0])}
		if err := validator.Validate(c); err != nil {
			return err
		}
		if err := applier.SetGPUMode(cmd.Context(), c.Mode); err != nil {
			return err
		}

		fmt.Printf("GPU mode set to %s (reboot required to take effect)\n", c.Mode)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(setFreqCmd)
	rootCmd.AddCommand(setProfileCmd)
	rootCmd.AddCommand(setUndervoltCmd)
	rootCmd.AddCommand(setGPUCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		if level, levelErr := logger.ParseLevel(cfg.LogLevel); levelErr == nil {
			logger.SetLogLevel(level)
		}
	}

	sysfs := &cpu.Sysfs{
		CPURoot:     cfg.SysfsCPURoot,
		HwmonRoot:   cfg.HwmonRoot,
		ThermalZone: cfg.ThermalZone,
		ProcCPUInfo: cfg.ProcCPUInfo,
	}

	validator = command.NewValidator(sysfs, cfg.UndervoltTool, cfg.UndervoltConfig, cfg.GPUTool)
	applier = apply.New(sysfs, apply.ExecRunner(), cfg.Governor, cfg.UndervoltTool, cfg.UndervoltConfig, cfg.GPUTool)

	return nil
}

// applyFrequency runs the shared validate-then-apply path used by both
// set-freq and the legacy named profiles.
func applyFrequency(c command.SetFrequency) error {
	if err := validator.Validate(c); err != nil {
		return err
	}

	result, err := applier.SetFrequency(c.KHz)
	if err != nil {
		return err
	}

	fmt.Println(result.Message())

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var domainErr errors.Error
		if errors.As(err, &domainErr) {
			logger.ErrorWithCode(domainErr).Send()
			os.Exit(1)
		}
		logger.Fatal().Msg(err.Error())
	}
}
