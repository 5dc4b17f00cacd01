package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
)

var (
	ledLight  uint8
	ledSwitch uint8
	ledRate   uint8
	ledRandom uint8
)

var ledCmd = &cobra.Command{
	Use:   "led",
	Short: "Control the LED groups (light 0 broadcasts to both MCUs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return br.Send(catalog.LED(ledLight, ledSwitch, ledRate, ledRandom))
	},
}

var (
	heartbeatSwitch   uint8
	heartbeatInterval uint16
)

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat <target>",
	Short: "Send a heartbeat to the head, bottom or both MCUs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := catalog.ParsePointTag(args[0])
		if err != nil {
			return err
		}
		return br.Send(catalog.Heartbeat(tag, heartbeatSwitch,
			byte(heartbeatInterval&0xFF), byte(heartbeatInterval>>8)))
	},
}

var projectorCmd = &cobra.Command{
	Use:   "projector <on|off>",
	Short: "Switch the head projector",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "on":
			return br.Send(catalog.ProjectorPower(true))
		case "off":
			return br.Send(catalog.ProjectorPower(false))
		}
		return fmt.Errorf("projector wants on or off, got %q", args[0])
	},
}

var (
	defendPart uint8
	defendOff  bool
)

var motorDefendCmd = &cobra.Command{
	Use:   "motor-defend",
	Short: "Toggle motor protection (parts 1-3 live on the head MCU)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return br.Send(catalog.MotorDefend(defendPart, !defendOff))
	},
}

var resetTime uint8

var resetCmd = &cobra.Command{
	Use:   "reset <target>",
	Short: "Reset the head or bottom MCU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := catalog.ParsePointTag(args[0])
		if err != nil {
			return err
		}
		return br.Send(catalog.MCUReset(tag, resetTime))
	},
}

func init() {
	ledCmd.Flags().Uint8Var(&ledLight, "light", 0, "which light group")
	ledCmd.Flags().Uint8Var(&ledSwitch, "switch", 1, "effect selector byte")
	ledCmd.Flags().Uint8Var(&ledRate, "rate", 0, "effect rate byte")
	ledCmd.Flags().Uint8Var(&ledRandom, "random", 0, "random count byte")

	heartbeatCmd.Flags().Uint8Var(&heartbeatSwitch, "switch", 1, "heartbeat switch byte")
	heartbeatCmd.Flags().Uint16Var(&heartbeatInterval, "interval", 0, "heartbeat interval (little-endian on the wire)")

	motorDefendCmd.Flags().Uint8Var(&defendPart, "part", 1, "which motor part")
	motorDefendCmd.Flags().BoolVar(&defendOff, "off", false, "disable protection instead of enabling it")

	resetCmd.Flags().Uint8Var(&resetTime, "time", 0, "reset delay byte")
}
