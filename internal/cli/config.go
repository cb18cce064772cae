package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/viper"
)

const (
	configName = ".jsonmodel"
	configType = "yaml"

	cfgKeyChecks = "checks"
	cfgKeyColor  = "color"

	defaultColorMode = "auto"
)

// cliConfig is the subset of .jsonmodel.yaml the commands consume.
type cliConfig struct {
	Checks []string
	Color  string
}

// loadConfig reads .jsonmodel.yaml from the working directory or the
// home directory, or the file named by --config. A missing config file
// is not an error.
func loadConfig() (cliConfig, error) {
	v := viper.New()
	v.SetDefault(cfgKeyColor, defaultColorMode)
	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cliConfig{Color: defaultColorMode}, nil
		}
		return cliConfig{}, fmt.Errorf("read config: %w", err)
	}

	return cliConfig{
		Checks: v.GetStringSlice(cfgKeyChecks),
		Color:  v.GetString(cfgKeyColor),
	}, nil
}

// applyColorMode maps the color config onto the global color state.
func applyColorMode(mode string) error {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "", "auto":
		// Keep tty auto-detection.
	default:
		return fmt.Errorf("invalid color mode %q (want always, never, or auto)", mode)
	}
	return nil
}
