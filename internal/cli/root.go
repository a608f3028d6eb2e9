package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pulse/internal/logger"
)

// Global flags
var (
	cfgFile      string
	intervalFlag string
	noColor      bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Background host metrics monitor",
	Long: `pulse samples CPU, GPU, memory, network and top processes on a fixed
interval and hands every snapshot to whichever view you pick.

Run without a subcommand on a terminal to open the live panel; when output
is piped, pulse prints the status line instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Execute prints suggestions itself, so set what cobra only defaults
	// inside its own error path.
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyGlobalFlags()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return watchCommand(cmd.Context())
		}
		return statusCommand(cmd.Context(), cmd.OutOrStdout(), false)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/pulse/config.yaml)")
	pf.StringVar(&intervalFlag, "interval", "", "poll interval, e.g. 2s, 500ms, or seconds as a number")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// applyGlobalFlags configures color and logging from the persistent flags.
func applyGlobalFlags() {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if verbose {
		logger.SetDefault(logger.NewWriterLogger(os.Stderr, "", true))
	}
}

// Execute runs the root command and exits non-zero on failure.
// SIGINT and SIGTERM cancel the command's context so pollers stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprint(os.Stderr, strings.TrimRight(err.Error(), "\n")+"\n")
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				if s := rootCmd.SuggestionsFor(name); len(s) > 0 {
					fmt.Fprintf(os.Stderr, "\nDid you mean '%s'?\n", s[0])
				}
			}
			fmt.Fprintln(os.Stderr, "Run 'pulse --help' for usage.")
		}
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "pulse"`, or "" if it isn't quoted.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
