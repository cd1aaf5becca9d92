package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/bpgroup/internal/config"
)

var configInitGlobal bool

var configInitCmd = &cobra.Command{
	Use:   "config:init [path]",
	Short: "Write a commented default config file",
	Long: `Write the default configuration, with comments, to path.

Without a path the file goes to .bpgroup/config.yaml in the current
directory, or to ~/.config/bpgroup/config.yaml with --global. An existing
file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.LocalConfigPath
		switch {
		case len(args) == 1:
			path = args[0]
		case configInitGlobal:
			path = config.DefaultConfigPath()
			if path == "" {
				return fmt.Errorf("cannot determine home directory")
			}
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write the user config in ~/.config/bpgroup")
	rootCmd.AddCommand(configInitCmd)
}
