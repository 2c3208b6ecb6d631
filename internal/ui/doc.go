// Package ui provides terminal UI components for the webos3d CLI.
//
// This package uses Bubble Tea and Lipgloss to render terminal output. The
// components follow a "run once and exit" pattern: they render a command's
// outcome but don't require user interaction. The interactive remote lives in
// the remote package.
//
// # Components
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Step list for multi-step operations such as a 3D switch
//   - Result: Success/failure/warning boxes with details and troubleshooting
//   - Spinner: Shown while discovery or a 3D switch blocks
//
// Runner ties header, steps and result together:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "3D Mode",
//	    Command:   "webos3d 3d set top_bottom",
//	    Params:    []ui.Param{{Key: "TV", Value: host}},
//	    StepNames: []string{"Connect", "Switch"},
//	    Hint:      tv.GetTroubleshootingHint,
//	})
//
//	err := runner.Run(func(onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// Logging is controlled via the WEBOS3D_LOG_LEVEL environment variable. When
// unset or empty, zap logging is silent, so only the UI output is shown.
package ui
