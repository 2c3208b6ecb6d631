// Package config provides user configuration management for webos3d.
//
// This package manages a YAML-based configuration file that remembers paired
// TVs (nickname, last address, client key) and application preferences such
// as the default host, discovery settings and renderer mode overrides. The
// configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/webos3d/config.yaml or $HOME/.config/webos3d/config.yaml
//   - macOS: $HOME/.config/webos3d/config.yaml
//   - Windows: %LOCALAPPDATA%\webos3d\config.yaml
//
// An explicit path can be used instead via LoadFrom (the CLI's --config flag).
//
// # Security
//
// Client keys are stored in plain text. The file is written with mode 0600 in
// a 0700 directory.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//
//	registry.SetTVNickname("192.168.1.20", "Living Room")
//	keys := config.NewRegistryKeyStore(registry)
//	client := tv.NewClient(keys)
//
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
