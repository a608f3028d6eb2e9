package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/ui"
)

var (
	initForce    bool
	initDefaults bool
	showJSON     bool
)

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, inspect, or edit the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Create ~/.config/pulse/config.yaml (or the --config path).

On a terminal you are prompted for each value; otherwise, or with
--defaults, the defaults are written.

Examples:
  pulse config init
  pulse config init --defaults --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Path:           cfgFile,
			Overwrite:      initForce,
			NonInteractive: initDefaults,
			Out:            cmd.OutOrStdout(),
		})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration pulse would run with: the config file merged
with defaults, PULSE_* environment overrides, and --interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cmd.OutOrStdout(), showJSON)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one config value",
	Long: `Change one value in the config file, keeping comments and other keys.
The file is created if it doesn't exist. The new value is validated first.

Keys: update_interval, history_len, top_processes, gpu_timeout,
core_layout_timeout, menu_bar_display, show_sparkline, listen

Examples:
  pulse config set update_interval 5s
  pulse config set menu_bar_display cpu+mem`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		if len(args) == 1 && args[0] == "menu_bar_display" {
			modes := make([]string, 0, len(ui.DisplayModes))
			for _, m := range ui.DisplayModes {
				modes = append(modes, string(m))
			}
			return modes, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	configInitCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write defaults without prompting")
	configShowCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")

	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowOutput is the --json form of config show.
type ConfigShowOutput struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

func configShowCommand(w io.Writer, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, _ := config.Find(cfgFile)

	if asJSON {
		return WriteJSONSuccess(w, ConfigShowOutput{Path: path, Config: cfg})
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(w, "# no config file, showing defaults")
	} else {
		fmt.Fprintf(w, "# %s\n", path)
	}
	_, err = w.Write(data)
	return err
}

func configSetCommand(w io.Writer, key, value string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.SetValue(path, key, value); err != nil {
		return err
	}
	fmt.Fprintln(w, ui.Success(fmt.Sprintf("Set %s = %s in %s", key, value, path)))
	return nil
}
