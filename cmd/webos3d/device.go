package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/webos3d/internal/protocol"
	"github.com/muurk/webos3d/internal/tv"
	"github.com/muurk/webos3d/internal/ui"
)

var toastIcon string

func init() {
	rootCmd.AddCommand(buttonCmd)
	rootCmd.AddCommand(clickCmd)
	rootCmd.AddCommand(toastCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(inputCmd)
	rootCmd.AddCommand(channelCmd)
	rootCmd.AddCommand(audioCmd)

	toastCmd.Flags().StringVar(&toastIcon, "icon", "", "Image file shown next to the message")

	volumeCmd.AddCommand(volumeGetCmd)
	volumeCmd.AddCommand(volumeSetCmd)
	inputCmd.AddCommand(inputListCmd)
	inputCmd.AddCommand(inputSetCmd)
}

var buttonCmd = &cobra.Command{
	Use:       "button <name>",
	Short:     "Press a remote-control button",
	Long:      "Send a button press on the input pointer channel.\n\nButtons: HOME, BACK, UP, DOWN, LEFT, RIGHT, 3D_MODE (or 3d).",
	Example:   "  webos3d button 3d",
	Args:      cobra.ExactArgs(1),
	ValidArgs: buttonNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		button, err := protocol.ParseButton(args[0])
		if err != nil {
			return err
		}
		return withTV("Button", func(client *tv.Client) error {
			if err := client.SendButton(button); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Sent "+string(button), ui.Param{Key: "TV", Value: client.Host()})
			return nil
		})
	},
}

func buttonNames() []string {
	names := make([]string, len(protocol.Buttons))
	for i, b := range protocol.Buttons {
		names[i] = string(b)
	}
	return names
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at the pointer position (confirms the focused entry)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTV("Click", func(client *tv.Client) error {
			if err := client.SendClick(); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Clicked", ui.Param{Key: "TV", Value: client.Host()})
			return nil
		})
	},
}

var toastCmd = &cobra.Command{
	Use:     "toast <message>",
	Short:   "Show a notification on the TV",
	Example: "  webos3d toast \"Movie starts in 5 minutes\" --icon popcorn.png",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var icon *tv.Icon
		if toastIcon != "" {
			var err error
			if icon, err = tv.LoadIcon(toastIcon); err != nil {
				return err
			}
		}
		return withTV("Toast", func(client *tv.Client) error {
			if err := client.Toast(args[0], icon); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Toast shown", ui.Param{Key: "Message", Value: args[0]})
			return nil
		})
	},
}

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Show or set the volume",
	RunE:  runVolumeGet,
}

var volumeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the volume",
	RunE:  runVolumeGet,
}

var volumeSetCmd = &cobra.Command{
	Use:   "set <0-100>",
	Short: "Set the volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		volume, err := strconv.Atoi(args[0])
		if err != nil {
			return tv.NewValidationError(fmt.Sprintf("volume must be a number, got %q", args[0]))
		}
		return withTV("Volume", func(client *tv.Client) error {
			if err := client.SetVolume(volume); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Volume set", ui.Param{Key: "Volume", Value: strconv.Itoa(volume)})
			return nil
		})
	},
}

func runVolumeGet(cmd *cobra.Command, args []string) error {
	return withTV("Volume", func(client *tv.Client) error {
		volume, err := client.Volume()
		if err != nil {
			return err
		}
		ui.NewPrinter(nil).PrintSuccess("Volume", ui.Param{Key: "Volume", Value: strconv.Itoa(volume)})
		return nil
	})
}

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "List or switch external inputs",
	RunE:  runInputList,
}

var inputListCmd = &cobra.Command{
	Use:   "list",
	Short: "List external inputs",
	RunE:  runInputList,
}

var inputSetCmd = &cobra.Command{
	Use:     "set <id>",
	Short:   "Switch to an external input",
	Example: "  webos3d input set HDMI_2",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTV("Input", func(client *tv.Client) error {
			if err := client.SetInput(args[0]); err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Input switched", ui.Param{Key: "Input", Value: args[0]})
			return nil
		})
	},
}

func runInputList(cmd *cobra.Command, args []string) error {
	return withTV("Inputs", func(client *tv.Client) error {
		inputs, err := client.Inputs()
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(inputs))
		for _, in := range inputs {
			fav := ""
			if in.Favorite {
				fav = "*"
			}
			rows = append(rows, []string{in.ID, in.Label, fav})
		}
		ui.NewPrinter(nil).PrintTable([]string{"ID", "LABEL", "FAV"}, rows)
		return nil
	})
}

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Show the current TV channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTV("Channel", func(client *tv.Client) error {
			ch, err := client.CurrentChannel()
			if err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Current channel",
				ui.Param{Key: "Number", Value: ch.Number},
				ui.Param{Key: "Name", Value: ch.Name},
				ui.Param{Key: "Type", Value: ch.Type},
				ui.Param{Key: "ID", Value: ch.ID},
			)
			return nil
		})
	},
}

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Show the audio output status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTV("Audio", func(client *tv.Client) error {
			status, err := client.AudioStatus()
			if err != nil {
				return err
			}
			ui.NewPrinter(nil).PrintSuccess("Audio status",
				ui.Param{Key: "Output", Value: status.Scenario},
				ui.Param{Key: "Volume", Value: strconv.Itoa(status.Volume)},
				ui.Param{Key: "Mute", Value: onOff(status.Mute)},
			)
			return nil
		})
	},
}
