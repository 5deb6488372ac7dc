package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shelve/internal/config"
)

func newConfigCmd(e *env, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(e, v))
	cmd.AddCommand(newConfigShowCmd(v))
	return cmd
}

func newConfigInitCmd(e *env, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the current settings",
		Long: `Write a TOML configuration file holding the defaults merged with any flags
and SHELVE_* variables given. Without a path the file is created in the user
configuration directory (e.g. ~/.config/shelve/config.toml).

An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initPath(e, args)
			if err != nil {
				return err
			}

			f, err := config.Load(v, v.GetString(keyConfig))
			if err != nil {
				return err
			}
			if err := config.Init(e.fs, path, f); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration to %s\n", path)
			return nil
		},
	}
}

func initPath(e *env, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	dir, err := e.configDir()
	if err != nil {
		return "", fmt.Errorf("locating the user configuration directory: %w", err)
	}
	return filepath.Join(dir, "shelve", "config.toml"), nil
}

func newConfigShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(v, v.GetString(keyConfig))
			if err != nil {
				return err
			}
			m := &config.Manager{}
			return m.Write(cmd.OutOrStdout(), f)
		},
	}
}
