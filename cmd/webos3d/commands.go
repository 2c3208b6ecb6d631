package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/config"
	"github.com/muurk/webos3d/internal/discovery"
	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/protocol"
	"github.com/muurk/webos3d/internal/remote"
	"github.com/muurk/webos3d/internal/tv"
	"github.com/muurk/webos3d/internal/ui"
)

// Command flags
var (
	scanTries     int
	scanTimeout   int
	scanMDNS      bool
	pairNickname  string
	pairDefault   bool
	watchInterval time.Duration
	watchCheck    time.Duration
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(watchCmd)
}

// scanCmd discovers a TV on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find a webOS TV on the local network",
	Long: `Find a webOS TV with an SSDP search.

The search datagram is sent up to --tries times and each attempt waits
--timeout seconds for a reply. The first TV that answers is reported and
remembered in the config file. With --mdns the TV is looked up with
mDNS/DNS-SD instead, which helps on networks that filter multicast SSDP.`,
	Example: `  # Default search (5 tries, 3 seconds each)
  webos3d scan

  # Patient search on a busy network
  webos3d scan --tries 10 --timeout 5

  # Use mDNS instead of SSDP
  webos3d scan --mdns`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTries, "tries", 0, "Number of SSDP searches (default from config)")
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Seconds to wait for each reply (default from config)")
	scanCmd.Flags().BoolVar(&scanMDNS, "mdns", false, "Use mDNS instead of SSDP")
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(nil)

	tries := discovery.DefaultTries
	timeout := discovery.DefaultTimeout
	if prefs := registry.Preferences; prefs != nil {
		if prefs.DiscoverTries > 0 {
			tries = prefs.DiscoverTries
		}
		timeout = prefs.DiscoverTimeoutDuration()
	}
	if scanTries > 0 {
		tries = scanTries
	}
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	if scanMDNS {
		p.PrintHeader("Scan", cmd.CommandPath(), ui.Param{Key: "Method", Value: "mDNS"})
		return runScanMDNS(p)
	}
	p.PrintHeader("Scan", cmd.CommandPath(),
		ui.Param{Key: "Method", Value: "SSDP"},
		ui.Param{Key: "Tries", Value: fmt.Sprint(tries)},
		ui.Param{Key: "Timeout", Value: discovery.ClampTimeout(timeout).String()},
	)

	var device *discovery.Device
	err := ui.RunWithSpinner("Searching...", func() error {
		var err error
		device, err = discoverDevice(context.Background(), tries, timeout, false)
		return err
	})
	if err != nil {
		printFailure("Scan", err)
		return err
	}

	rememberDevice(device)

	details := []ui.Param{
		{Key: "Address", Value: device.IP},
		{Key: "Found via", Value: device.Source},
	}
	if device.Server != "" {
		details = append(details, ui.Param{Key: "Server", Value: device.Server})
	}
	if device.Hostname != "" {
		details = append(details, ui.Param{Key: "Hostname", Value: device.Hostname})
	}
	if device.Location != "" {
		details = append(details, ui.Param{Key: "Location", Value: device.Location})
	}
	p.PrintSuccess("Found "+device.String(), details...)
	p.Newline()
	p.Println(fmt.Sprintf("Use 'webos3d pair --host %s' to pair with it", device.IP))
	return nil
}

// runScanMDNS browses for the full mDNS window and lists every TV seen
func runScanMDNS(p *ui.Printer) error {
	scanner := discovery.NewMDNSScanner()
	if prefs := registry.Preferences; prefs != nil && prefs.MDNSService != "" {
		scanner.Service = prefs.MDNSService
	}

	var devices []*discovery.Device
	err := ui.RunWithSpinner(fmt.Sprintf("Browsing %s...", scanner.Service), func() error {
		var err error
		devices, err = scanner.ScanForDevices(context.Background())
		return err
	})
	if err == nil && len(devices) == 0 {
		err = discovery.ErrNotFound
	}
	if err != nil {
		printFailure("Scan", err)
		return err
	}

	rows := make([][]string, 0, len(devices))
	for _, device := range devices {
		rememberDevice(device)
		rows = append(rows, []string{device.IP, device.Hostname, device.GetMetadata("model")})
	}
	p.PrintTable([]string{"ADDRESS", "HOSTNAME", "MODEL"}, rows)
	p.Newline()
	p.Println(fmt.Sprintf("Use 'webos3d pair --host %s' to pair with a TV", devices[0].IP))
	return nil
}

// pairCmd pairs with a TV and stores the key
var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair with the TV and store the pairing key",
	Long: `Connect to the TV and register this application.

On the first connection the TV shows a prompt asking whether to allow
the connection. Accept it with the TV remote. The pairing key the TV
issues is stored in the config file and used for every later
connection, so the prompt appears only once.`,
	Example: `  # Pair with a known address and make it the default TV
  webos3d pair --host 192.168.1.20 --name lounge --default`,
	RunE: runPair,
}

func init() {
	pairCmd.Flags().StringVar(&pairNickname, "name", "", "Nickname to use instead of the address")
	pairCmd.Flags().BoolVar(&pairDefault, "default", false, "Make this the default TV")
}

func runPair(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(nil)
	p.PrintHeader("Pair", cmd.CommandPath())
	p.Println("  Accept the connection prompt on the TV if it appears.")
	p.Newline()

	return withTV("Pairing", func(client *tv.Client) error {
		host := config.HostKey(client.Host())
		if pairNickname != "" {
			registry.SetTVNickname(host, pairNickname)
		}
		if pairDefault {
			if registry.Preferences == nil {
				registry.Preferences = config.DefaultPreferences()
			}
			registry.Preferences.DefaultHost = host
		}
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		path, _ := registry.Path()
		details := []ui.Param{
			{Key: "TV", Value: client.Host()},
			{Key: "Pointer", Value: onOff(client.PointerConnected())},
			{Key: "Config", Value: path},
		}
		if pairNickname != "" {
			details = append(details, ui.Param{Key: "Nickname", Value: pairNickname})
		}
		p.PrintSuccess("Paired", details...)
		if client.PointerOnConnect && !client.PointerConnected() {
			p.Newline()
			p.PrintWarning("Pointer channel unavailable",
				ui.Param{Key: "Effect", Value: "3D modes other than OFF cannot be set"},
				ui.Param{Key: "Try", Value: "webos3d --log-level debug button home"},
			)
		}
		return nil
	})
}

// remoteCmd runs the interactive remote
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Interactive keyboard remote",
	Long: `Drive the TV from the keyboard.

Arrow keys move the focus, h and b press HOME and BACK, 3 opens the 3D
menu and enter clicks. Press ? for all keys and q to quit.`,
	RunE: runRemote,
}

func runRemote(cmd *cobra.Command, args []string) error {
	return withTV("Remote", func(client *tv.Client) error {
		return remote.Run(client, client.Host())
	})
}

// watchCmd holds a 3D mode
var watchCmd = &cobra.Command{
	Use:   "watch [mode]",
	Short: "Keep the session alive and hold a 3D mode",
	Long: `Keep a session open until interrupted.

A WebSocket ping is sent every --interval so the TV does not drop the
idle connection. When a mode is given, the TV's 3D mode is checked every
--check and switched back if it changed, e.g. after an input change.`,
	Example: `  # Hold top and bottom
  webos3d watch top_bottom

  # Only keep the session alive
  webos3d watch --interval 30s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Keepalive ping interval (default from config)")
	watchCmd.Flags().DurationVar(&watchCheck, "check", 10*time.Second, "How often to check the 3D mode")
}

func runWatch(cmd *cobra.Command, args []string) error {
	hold := protocol.ModeError
	if len(args) == 1 {
		mode, err := protocol.ParseMode(args[0])
		if err != nil {
			return err
		}
		hold = mode
	}

	interval := watchInterval
	if interval <= 0 {
		interval = registry.Preferences.KeepaliveDuration()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withTV("Watch", func(client *tv.Client) error {
		p := ui.NewPrinter(nil)
		params := []ui.Param{
			{Key: "TV", Value: client.Host()},
			{Key: "Keepalive", Value: interval.String()},
		}
		if hold != protocol.ModeError {
			params = append(params, ui.Param{Key: "Hold", Value: hold.String()})
		}
		p.PrintHeader("Watch", strings.TrimSpace(cmd.CommandPath()+" "+strings.Join(args, " ")), params...)
		p.Println("  Press ctrl+c to stop.")

		client.StartKeepalive(ctx, interval)
		if hold == protocol.ModeError {
			<-ctx.Done()
			return nil
		}

		ticker := time.NewTicker(watchCheck)
		defer ticker.Stop()
		for {
			switched, err := client.Reswitch(hold)
			switch {
			case err != nil:
				logging.Warn("Reswitch failed", zap.String("mode", hold.String()), zap.Error(err))
				p.Println(ui.ErrorMessageStyle.Render(fmt.Sprintf("  %s %s  %s", ui.FailureMarker, time.Now().Format("15:04:05"), tv.GetShortErrorMessage(err))))
			case switched:
				p.Println(fmt.Sprintf("  %s %s  switched back to %s", ui.SuccessMarker, time.Now().Format("15:04:05"), hold))
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
}
