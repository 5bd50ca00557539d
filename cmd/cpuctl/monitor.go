package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/cpuctl/internal/cpu"
	"codeberg.org/mutker/cpuctl/internal/logger"
	"codeberg.org/mutker/cpuctl/internal/metrics"
	"codeberg.org/mutker/cpuctl/internal/pid"
)

var (
	metricsFlag  bool
	intervalFlag int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show detected CPU capability and live sensors",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the power profiles derived from the hardware limits",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Periodically log live frequency and temperature",
	Args:  cobra.NoArgs,
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&metricsFlag, "metrics", false, "Record snapshots to the metrics database")
	monitorCmd.Flags().IntVar(&intervalFlag, "interval", 0, "Poll interval in milliseconds (overrides config)")
}

func runStatus(_ *cobra.Command, _ []string) error {
	info := sysfs.Detect()

	fmt.Printf("Model:     %s\n", info.Model)
	fmt.Printf("Driver:    %s\n", info.Driver)
	fmt.Printf("Cores:     %d\n", info.OnlineCores)
	fmt.Printf("Governors: %s\n", strings.Join(info.Governors, " "))
	fmt.Printf("Limits:    %s\n", formatLimits(info.Limits))

	snapshot := sysfs.ReadSnapshot()
	if snapshot.Cores > 0 {
		fmt.Printf("CPU:       %d MHz (%d cores)\n", snapshot.AvgFreqKHz/1000, snapshot.Cores)
	} else {
		fmt.Println("CPU:       N/A")
	}
	if snapshot.TempOK {
		fmt.Printf("Temp:      %.0f °C\n", snapshot.TempC)
	} else {
		fmt.Println("Temp:      N/A")
	}

	return nil
}

func runProfiles(_ *cobra.Command, _ []string) error {
	profiles := cpu.DeriveProfiles(sysfs.ReadLimits())

	for _, profile := range profiles {
		fmt.Printf("%-12s %8d kHz  %s\n", profile.Key, profile.KHz, profile.Label)
	}

	return nil
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	if err := pid.Write(); err != nil {
		return err
	}
	defer pid.Remove()

	// Monitor output goes through the logger, so raise the level.
	if !(cfg.Debug || debugFlag) {
		logger.SetLogLevel(logger.InfoLevel)
	}

	collector, err := metrics.NewService(metrics.Config{
		Enabled: cfg.Metrics || metricsFlag,
		DBPath:  cfg.Database,
	})
	if err != nil {
		return err
	}
	defer collector.Close()

	intervalMS := cfg.IntervalMS
	if intervalFlag > 0 {
		intervalMS = intervalFlag
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go handleSignals(cancel)

	logger.Info().Int("interval_ms", intervalMS).Msg("Monitoring CPU sensors...")

	ticker := time.NewTicker(time.Duration(intervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Exiting...")
			return nil
		case <-ticker.C:
			tick(ctx, collector)
		}
	}
}

// tick performs one cooperative sensor read. An unreadable sensor is
// logged as unknown for this tick, never retried.
func tick(ctx context.Context, collector metrics.Collector) {
	snapshot := sysfs.ReadSnapshot()

	event := logger.Info()
	if snapshot.Cores > 0 {
		event.Int64("avg_freq_mhz", snapshot.AvgFreqKHz/1000).Int("cores", snapshot.Cores)
	} else {
		event.Str("avg_freq_mhz", "unknown")
	}
	if snapshot.TempOK {
		event.Float64("temperature_c", snapshot.TempC)
	} else {
		event.Str("temperature_c", "unknown")
	}
	event.Msg("")

	if err := collector.Record(ctx, &metrics.Snapshot{
		Timestamp:  time.Now(),
		AvgFreqKHz: snapshot.AvgFreqKHz,
		Cores:      snapshot.Cores,
		TempC:      snapshot.TempC,
		TempOK:     snapshot.TempOK,
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to record metrics snapshot")
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	cancel()
}

func formatLimits(limits cpu.Limits) string {
	if !limits.Bounded() {
		return fmt.Sprintf("%d kHz - unbounded", limits.MinKHz)
	}
	if limits.BaseKHz > 0 {
		return fmt.Sprintf("%d - %d kHz (base %d)", limits.MinKHz, limits.MaxKHz, limits.BaseKHz)
	}

	return fmt.Sprintf("%d - %d kHz", limits.MinKHz, limits.MaxKHz)
}
