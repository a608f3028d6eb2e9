// Package cli implements the pulse command-line interface.
//
// Every command builds the same engine: configuration is resolved, a poller
// is wired over the local host, and the command attaches one consumer to it.
//
// # Command Structure
//
// The root command is "pulse" with subcommands for each consumer:
//
//	pulse watch             - Live detail panel (default on a terminal)
//	pulse status [--once]   - Status-indicator line per snapshot
//	pulse snapshot [--json] - One measured snapshot, then exit
//	pulse serve             - Prometheus exporter
//	pulse config init|show|set
//	pulse doctor [--fix]    - Config and host capability checks
//	pulse version
//
// # Flag Handling
//
// Global flags (--config, --interval, --no-color, --verbose) are defined on
// the root command and applied in PersistentPreRunE before any subcommand
// runs. --interval overrides update_interval from the config file and
// environment.
package cli
