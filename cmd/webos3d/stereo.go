package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/webos3d/internal/protocol"
	"github.com/muurk/webos3d/internal/tv"
	"github.com/muurk/webos3d/internal/ui"
)

var renderFlag string

func init() {
	stereoCmd.AddCommand(stereoGetCmd)
	stereoCmd.AddCommand(stereoSetCmd)
	stereoCmd.AddCommand(stereoOnCmd)
	stereoCmd.AddCommand(stereoOffCmd)
	stereoCmd.AddCommand(stereoModesCmd)

	stereoSetCmd.Flags().StringVar(&renderFlag, "render", "", "Pick the mode for a renderer stereo mode (see '3d modes')")

	rootCmd.AddCommand(stereoCmd)
}

// stereoCmd groups the 3D display commands
var stereoCmd = &cobra.Command{
	Use:   "3d",
	Short: "Query and switch the TV's 3D display mode",
}

var stereoGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current 3D mode",
	RunE:  runStereoGet,
}

var stereoSetCmd = &cobra.Command{
	Use:   "set [mode]",
	Short: "Switch the TV to a 3D mode",
	Long: `Switch the TV to a 3D display mode.

Only OFF can be set directly. Every other mode is reached by opening the
TV's 3D menu and stepping through it with remote buttons, which takes a
few seconds. The mode is read back afterwards and a second pass is made
if the TV did not land on the requested mode.

The mode may be a name (TOP_BOTTOM), a TV pattern (top_bottom) or, with
--render, a renderer stereo mode that is mapped to a TV mode.`,
	Example: `  # Top and bottom
  webos3d 3d set top_bottom

  # Whatever the TV needs for a side by side render
  webos3d 3d set --render split_vertical

  # Back to 2D
  webos3d 3d set off`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStereoSet,
}

var stereoOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn 3D on in the TV's default mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStereoToggle(true)
	},
}

var stereoOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn 3D off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStereoToggle(false)
	},
}

var stereoModesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the 3D modes and renderer mappings",
	RunE:  runStereoModes,
}

func runStereoGet(cmd *cobra.Command, args []string) error {
	return withTV("3D status", func(client *tv.Client) error {
		status, err := client.Get3DStatus()
		if err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess("3D status",
			ui.Param{Key: "TV", Value: client.Host()},
			ui.Param{Key: "3D", Value: onOff(status.Status)},
			ui.Param{Key: "Pattern", Value: status.Pattern},
			ui.Param{Key: "Mode", Value: status.Mode().String()},
		)
		return nil
	})
}

// targetMode picks the requested mode from the argument or --render
func targetMode(args []string) (protocol.Display3dMode, error) {
	switch {
	case renderFlag != "" && len(args) > 0:
		return protocol.ModeError, tv.NewValidationError("give either a mode or --render, not both")
	case renderFlag != "":
		mapping, err := registry.Preferences.RenderMapping()
		if err != nil {
			return protocol.ModeError, fmt.Errorf("invalid render_modes in config: %w", err)
		}
		return mapping.Resolve(renderFlag)
	case len(args) == 1:
		return protocol.ParseMode(args[0])
	}
	return protocol.ModeError, tv.NewValidationError("a mode is required (see 'webos3d 3d modes')")
}

func runStereoSet(cmd *cobra.Command, args []string) error {
	target, err := targetMode(args)
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "3D Mode",
		Command:   cmd.CommandPath() + " " + target.String(),
		Params:    []ui.Param{{Key: "Target", Value: target.String()}},
		StepNames: []string{"Connect to TV", "Switch 3D mode"},
		Hint:      hintFor,
	})

	err = runner.Run(func(onStep ui.StepCallback) ([]ui.Param, error) {
		onStep(1, ui.StepRunning, "")
		client, err := connectQuiet(context.Background())
		if err != nil {
			onStep(1, ui.StepFailed, err.Error())
			return nil, err
		}
		defer client.Disconnect()
		onStep(1, ui.StepComplete, client.Host())

		onStep(2, ui.StepRunning, "")
		res := client.Switch3DMode(target)
		if res.Error != nil {
			onStep(2, ui.StepFailed, tv.GetShortErrorMessage(res.Error))
			return nil, res.Error
		}
		onStep(2, ui.StepComplete, res.Final.String())

		details := []ui.Param{
			{Key: "TV", Value: client.Host()},
			{Key: "From", Value: res.Initial.String()},
			{Key: "Mode", Value: res.Final.String()},
			{Key: "Presses", Value: strconv.Itoa(res.Presses)},
		}
		if res.Corrected {
			details = append(details, ui.Param{Key: "Corrected", Value: "yes, first pass landed on " + res.Observed.String()})
		}
		return details, nil
	})
	if errors.Is(err, ui.ErrInterrupted) {
		return nil
	}
	return err
}

// connectQuiet is connectTV without the spinner, for use inside a Runner
func connectQuiet(ctx context.Context) (*tv.Client, error) {
	host := configuredHost(hostFlag, registry)
	if host == "" {
		return connectTV(ctx)
	}
	client := newClient()
	if err := client.ConnectContext(ctx, host); err != nil {
		return nil, err
	}
	return client, nil
}

func runStereoToggle(on bool) error {
	title := "3D off"
	if on {
		title = "3D on"
	}
	return withTV(title, func(client *tv.Client) error {
		var err error
		if on {
			err = client.Enable3D()
		} else {
			err = client.Disable3D()
		}
		if err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess(title, ui.Param{Key: "TV", Value: client.Host()})
		return nil
	})
}

func runStereoModes(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(nil)

	rows := make([][]string, 0, len(protocol.AllModes()))
	for _, mode := range protocol.AllModes() {
		rows = append(rows, []string{strconv.Itoa(mode.Ordinal()), mode.String(), mode.Pattern()})
	}
	p.PrintTable([]string{"#", "MODE", "TV PATTERN"}, rows)
	p.Newline()

	mapping, err := registry.Preferences.RenderMapping()
	if err != nil {
		return fmt.Errorf("invalid render_modes in config: %w", err)
	}
	rows = rows[:0]
	for _, name := range mapping.Names() {
		rows = append(rows, []string{name, mapping[name].String()})
	}
	p.PrintTable([]string{"RENDER MODE", "TV MODE"}, rows)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
