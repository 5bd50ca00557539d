package config

import (
	"os"
	"path/filepath"

	"codeberg.org/mutker/cpuctl/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel   = "warning"
	DefaultIntervalMS = 2500

	configName = "cpuctl"
	configType = "toml"
	configDir  = "/etc"
)

// Config holds all tunables for both the unprivileged dispatcher and the
// privileged helper. Values come from /etc/cpuctl.toml with built-in
// defaults; the file is optional.
type Config struct {
	IntervalMS int    `mapstructure:"interval"`
	LogLevel   string `mapstructure:"log_level"`
	Debug      bool   `mapstructure:"debug"`
	Verbose    bool   `mapstructure:"verbose"`

	Metrics  bool   `mapstructure:"metrics"`
	Database string `mapstructure:"database"`

	HelperPath string `mapstructure:"helper_path"`

	SysfsCPURoot string `mapstructure:"sysfs_cpu_root"`
	HwmonRoot    string `mapstructure:"hwmon_root"`
	ThermalZone  string `mapstructure:"thermal_zone"`
	ProcCPUInfo  string `mapstructure:"proc_cpuinfo"`

	UndervoltTool   string `mapstructure:"undervolt_tool"`
	UndervoltConfig string `mapstructure:"undervolt_config"`
	GPUTool         string `mapstructure:"gpu_tool"`
	Governor        string `mapstructure:"governor"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CPUCTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultIntervalMS)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)

	v.SetDefault("metrics", false)
	v.SetDefault("database", defaultDatabasePath())

	v.SetDefault("helper_path", "/usr/local/bin/cpuctl-helper")

	v.SetDefault("sysfs_cpu_root", "/sys/devices/system/cpu")
	v.SetDefault("hwmon_root", "/sys/class/hwmon")
	v.SetDefault("thermal_zone", "/sys/class/thermal/thermal_zone0/temp")
	v.SetDefault("proc_cpuinfo", "/proc/cpuinfo")

	v.SetDefault("undervolt_tool", "intel-undervolt")
	v.SetDefault("undervolt_config", "/etc/intel-undervolt.conf")
	v.SetDefault("gpu_tool", "envycontrol")
	v.SetDefault("governor", "powersave")
}

func validate(config *Config) error {
	errFactory := errors.New()

	switch config.LogLevel {
	case "debug", "info", "warning", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, config.LogLevel)
	}

	if config.IntervalMS <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, config.IntervalMS)
	}

	return nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cpuctl", "metrics.db")
	}

	return filepath.Join(home, ".local", "share", "cpuctl", "metrics.db")
}
