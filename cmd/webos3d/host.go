package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/config"
	"github.com/muurk/webos3d/internal/discovery"
	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/tv"
	"github.com/muurk/webos3d/internal/ui"
)

// errNoHost is returned when no TV is configured and discovery is disabled
var errNoHost = errors.New("no TV address given: use --host, set preferences.default_host, or enable auto_discover")

// configuredHost returns the host named by the flag or the registry default,
// with nicknames resolved. It returns "" when neither is set.
func configuredHost(flag string, reg *config.Registry) string {
	name := flag
	if name == "" && reg != nil && reg.Preferences != nil {
		name = reg.Preferences.DefaultHost
	}
	if name == "" {
		return ""
	}
	if reg == nil {
		return name
	}
	return reg.ResolveHost(name)
}

// resolveHost picks the TV to talk to: --host, then the configured default,
// then network discovery. A discovered TV is remembered in the registry.
func resolveHost(ctx context.Context) (string, error) {
	if host := configuredHost(hostFlag, registry); host != "" {
		return host, nil
	}

	prefs := registry.Preferences
	if prefs == nil || !prefs.AutoDiscover {
		return "", errNoHost
	}

	var device *discovery.Device
	err := ui.RunWithSpinner("Looking for a webOS TV on the network...", func() error {
		var err error
		device, err = discoverDevice(ctx, prefs.DiscoverTries, prefs.DiscoverTimeoutDuration(), false)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	rememberDevice(device)
	return device.Host(), nil
}

// discoverDevice runs SSDP and falls back to mDNS when configured, or uses
// mDNS only when forceMDNS is set.
func discoverDevice(ctx context.Context, tries int, timeout time.Duration, forceMDNS bool) (*discovery.Device, error) {
	prefs := registry.Preferences

	if !forceMDNS {
		scanner := discovery.NewScanner()
		scanner.Tries = tries
		scanner.Timeout = timeout

		device, err := scanner.Discover(ctx)
		if err == nil {
			return device, nil
		}
		if prefs == nil || !prefs.MDNSFallback {
			return nil, err
		}
		logging.Debug("SSDP discovery failed, trying mDNS", zap.Error(err))
	}

	mdns := discovery.NewMDNSScanner()
	if prefs != nil && prefs.MDNSService != "" {
		mdns.Service = prefs.MDNSService
	}
	return mdns.Discover(ctx)
}

// rememberDevice records a discovered TV and saves the registry
func rememberDevice(device *discovery.Device) {
	registry.UpdateTVLastSeen(device.Host(), device.IP)
	if device.Server != "" {
		registry.EnsureTV(device.Host()).Model = device.Server
	}
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

// newClient creates a client configured from the registry preferences
func newClient() *tv.Client {
	client := tv.NewClient(config.NewRegistryKeyStore(registry))

	if prefs := registry.Preferences; prefs != nil {
		client.PointerOnConnect = prefs.ConnectPointer
		if prefs.AppName != "" {
			client.AppName = prefs.AppName
		}
	}
	if appNameFlag != "" {
		client.AppName = appNameFlag
	}
	return client
}

// connectTV resolves the host and opens a paired session with the TV.
// The caller must Disconnect the returned client.
func connectTV(ctx context.Context) (*tv.Client, error) {
	host, err := resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	client := newClient()
	err = ui.RunWithSpinner(fmt.Sprintf("Connecting to %s...", host), func() error {
		return client.ConnectContext(ctx, host)
	})
	if err != nil {
		return nil, err
	}

	registry.UpdateTVLastSeen(host, config.HostKey(host))
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
	return client, nil
}

// withTV connects, runs fn and disconnects. Failures are printed with
// troubleshooting tips before being returned.
func withTV(title string, fn func(client *tv.Client) error) error {
	client, err := connectTV(context.Background())
	if err != nil {
		printFailure(title, err)
		return err
	}
	defer client.Disconnect()

	if err := fn(client); err != nil {
		printFailure(title, err)
		return err
	}
	return nil
}

func printFailure(title string, err error) {
	if errors.Is(err, ui.ErrInterrupted) {
		return
	}
	ui.NewPrinter(nil).PrintError(title+" failed", err, hintFor(err))
}

// hintFor returns troubleshooting text for err
func hintFor(err error) string {
	switch {
	case errors.Is(err, errNoHost):
		return "Run 'webos3d scan' to find the TV, then pass --host or set preferences.default_host"
	case errors.Is(err, discovery.ErrNotFound):
		return "No webOS TV answered the SSDP search.\n" +
			"  • Ensure the TV is on and on the same network\n" +
			"  • Try a longer --timeout or more --tries\n" +
			"  • Try 'webos3d scan --mdns'\n" +
			"  • Pass the address directly with --host"
	}
	return tv.GetTroubleshootingHint(err)
}
