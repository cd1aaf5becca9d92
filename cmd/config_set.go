package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/bpgroup/internal/config"
)

var configSetCmd = &cobra.Command{
	Use:   "config:set <key> <value>",
	Short: "Set one configuration value",
	Long: fmt.Sprintf(`Set one key in the config file, keeping comments and the rest of the file.

The file is the one given with --config, else the file that was loaded,
else .bpgroup/config.yaml. The result is validated before it is written.

Keys:
  %s
  flags.<name>

Examples:
  bpgroup config:set join_function cn
  bpgroup config:set merge_library @/lib/utils
  bpgroup config:set flags.literal-only true`, strings.Join(config.SettableKeys(), "\n  ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configTarget(cfgFile, viper.ConfigFileUsed())
		if err := checkSetting(path, args[0], args[1]); err != nil {
			return err
		}
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configSetCmd)
}

func configTarget(flagPath, used string) string {
	switch {
	case flagPath != "":
		return flagPath
	case used != "":
		return used
	default:
		return config.LocalConfigPath
	}
}

// checkSetting loads the config at path with key overridden by value and
// validates the result.
func checkSetting(path, key, value string) error {
	v := viper.New()
	c, err := loadConfigOverride(v, path, key, value)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func loadConfigOverride(v *viper.Viper, path, key, value string) (config.Config, error) {
	setDefaults(v, config.Defaults())
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}
	v.Set(key, value)

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return c, nil
}
