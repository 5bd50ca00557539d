// cpuctl is the unprivileged dispatcher. It reads hardware state and
// derives profiles without elevation, and forwards each mutation
// request to the privileged helper exactly once, via pkexec.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/cpuctl/internal/config"
	"codeberg.org/mutker/cpuctl/internal/cpu"
	"codeberg.org/mutker/cpuctl/internal/errors"
	"codeberg.org/mutker/cpuctl/internal/logger"
)

var (
	cfg   *config.Config
	sysfs *cpu.Sysfs

	debugFlag   bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:               "cpuctl",
	Short:             "CPU power control for Linux laptops",
	Long:              "cpuctl shows CPU capability and live sensors, derives power profiles from the\nhardware limits, and requests privileged changes (frequency cap, undervolt,\nGPU mode) through the cpuctl-helper entry point.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debugging output")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose output")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(monitorCmd)
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

	logger.Init(cfg.Debug || debugFlag, cfg.Verbose || verboseFlag, logger.IsService())
	if !cfg.Debug && !debugFlag && !cfg.Verbose && !verboseFlag {
		if level, levelErr := logger.ParseLevel(cfg.LogLevel); levelErr == nil {
			logger.SetLogLevel(level)
		}
	}

	sysfs = &cpu.Sysfs{
		CPURoot:     cfg.SysfsCPURoot,
		HwmonRoot:   cfg.HwmonRoot,
		ThermalZone: cfg.ThermalZone,
		ProcCPUInfo: cfg.ProcCPUInfo,
	}

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
