// Webos3d is a remote control for LG webOS TVs focused on stereoscopic 3D.
//
// It finds the TV on the local network, pairs with it once and remembers the
// pairing key, and switches the TV's 3D display mode by driving the on-screen
// 3D menu with remote-control buttons. It also covers everyday remote
// functions: toasts, volume, inputs and an interactive keyboard remote.
//
// Usage:
//
//	webos3d [command] [flags]
//
// See 'webos3d --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/webos3d/internal/config"
	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/version"
)

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	hostFlag    string
	configPath  string
	logLevel    string
	appNameFlag string
)

// registry is loaded once before any command runs
var registry *config.Registry

var rootCmd = &cobra.Command{
	Use:   "webos3d",
	Short: "Remote control for LG webOS TVs with 3D mode switching",
	Long: `A command line remote for LG webOS TVs.

Discovers the TV with SSDP, pairs over its WebSocket API and switches the
TV's 3D display mode (side by side, top and bottom, ...) by driving the
on-screen 3D menu. The pairing key is stored in the config file so the
TV only asks for confirmation once.

If --host is not given, the default TV from the config file is used, and
failing that the TV is discovered on the local network.`,
	Version:           version.Get().Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "TV address or nickname (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/webos3d/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&appNameFlag, "app-name", "", "Application name shown in the TV's pairing prompt")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the config registry
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	var err error
	if configPath != "" {
		registry, err = config.LoadFrom(configPath)
	} else {
		registry, err = config.LoadRegistry()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webos3d %s\n", version.Get())
	},
}
