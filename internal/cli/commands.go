package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/errors"
)

// Command-specific flags
var (
	statusOnce   bool
	snapshotJSON bool
	serveListen  string
)

// watchCmd opens the live detail panel
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live detail panel",
	Long: `Open a full-screen panel with CPU, GPU, memory, network and top
processes, refreshed on every tick.

Keys: q quits, s toggles the status-line sparkline, m cycles the status
metrics (cpu, cpu+mem, cpu+gpu, all), ? shows help.

Examples:
  pulse watch
  pulse watch --interval 1s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context())
	},
}

// statusCmd prints the status-indicator text
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status line for each snapshot",
	Long: `Print the compact status-indicator line (e.g. " 42% ") once per tick,
for status bars such as tmux, i3blocks or xbar.

The metrics shown follow menu_bar_display in the config file.

Examples:
  pulse status
  pulse status --once`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(cmd.Context(), cmd.OutOrStdout(), statusOnce)
	},
}

// snapshotCmd takes one measured snapshot
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one snapshot and exit",
	Long: `Take a snapshot and print it. pulse waits for a second tick so network
rates are measured rather than reported as zero.

Examples:
  pulse snapshot
  pulse snapshot --json | jq .data.cpu.overall`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout(), snapshotJSON)
	},
}

// serveCmd runs the Prometheus exporter
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose metrics for Prometheus",
	Long: `Poll continuously and serve the latest snapshot on /metrics in the
Prometheus exposition format. /healthz answers ok.

Examples:
  pulse serve
  pulse serve --listen 0.0.0.0:9273`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd.Context(), serveListen)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for pulse.

Examples:
  # Bash
  pulse completion bash > /etc/bash_completion.d/pulse

  # Zsh
  pulse completion zsh > "${fpath[1]}/_pulse"

  # Fish
  pulse completion fish > ~/.config/fish/completions/pulse.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if out == nil {
			out = os.Stdout
		}
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusOnce, "once", false, "print a single measured line and exit")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "output as JSON")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config, 127.0.0.1:9273)")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(completionCmd)
}
