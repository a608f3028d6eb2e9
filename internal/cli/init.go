package cli

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// InitOptions holds options for the config init command.
type InitOptions struct {
	Path           string // Destination; defaults to ~/.config/pulse/config.yaml
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, write defaults
	Out            io.Writer
}

// intervalChoices are the poll intervals offered by the interactive form.
var intervalChoices = []time.Duration{
	time.Second, 2 * time.Second, 5 * time.Second, 10 * time.Second,
}

// configHeader is written above the generated YAML.
const configHeader = `# pulse configuration
# Every key can be overridden with PULSE_<KEY>, e.g. PULSE_UPDATE_INTERVAL=5s.
# Change one value with: pulse config set <key> <value>

`

// Init writes a new config file, prompting for values on a terminal.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	path := opts.Path
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine home directory",
			"Pass an explicit path with --config")
	}

	interactive := !opts.NonInteractive && isInteractive()

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if !interactive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if interactive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := writeConfigFile(path, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.Success("Created "+path))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  pulse watch     - Open the live panel")
	fmt.Fprintln(out, "  pulse status    - Print the status line")
	fmt.Fprintln(out, "  pulse serve     - Expose Prometheus metrics")
	return nil
}

// promptConfig fills cfg from an interactive form.
func promptConfig(cfg *config.Config) error {
	interval := cfg.UpdateInterval
	mode := cfg.DisplayMode()
	sparkline := cfg.ShowSparkline
	listen := cfg.Listen
	topN := strconv.Itoa(cfg.TopProcesses)

	intervalOpts := make([]huh.Option[time.Duration], 0, len(intervalChoices))
	for _, d := range intervalChoices {
		intervalOpts = append(intervalOpts, huh.NewOption(d.String(), d))
	}
	modeOpts := make([]huh.Option[ui.DisplayMode], 0, len(ui.DisplayModes))
	for _, m := range ui.DisplayModes {
		modeOpts = append(modeOpts, huh.NewOption(string(m), m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[time.Duration]().
				Title("Update interval").
				Description("How often every metric is sampled").
				Options(intervalOpts...).
				Value(&interval),
			huh.NewSelect[ui.DisplayMode]().
				Title("Status line shows").
				Options(modeOpts...).
				Value(&mode),
			huh.NewConfirm().
				Title("Append a CPU sparkline to the status line?").
				Value(&sparkline),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Top processes").
				Description("How many processes each snapshot ranks").
				Value(&topN).
				Validate(validateTopProcesses),
			huh.NewInput().
				Title("Exporter listen address").
				Description("Used by 'pulse serve'").
				Placeholder(config.DefaultListen).
				Value(&listen).
				Validate(validateListenAddr),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --defaults")
	}

	cfg.UpdateInterval = interval
	cfg.MenuBarDisplay = string(mode)
	cfg.ShowSparkline = sparkline
	cfg.Listen = listen
	cfg.TopProcesses, _ = strconv.Atoi(topN)
	return nil
}

func validateTopProcesses(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > config.MaxTopProcesses {
		return fmt.Errorf("enter a number from 1 to %d", config.MaxTopProcesses)
	}
	return nil
}

func validateListenAddr(s string) error {
	if _, _, err := net.SplitHostPort(s); err != nil {
		return fmt.Errorf("use host:port, e.g. %s", config.DefaultListen)
	}
	return nil
}

// writeConfigFile writes cfg with the explanatory header.
func writeConfigFile(path string, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", path),
			"Check directory permissions")
	}
	return nil
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
