package cli

import (
	"github.com/spf13/cobra"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Status queries (battery, gyro, touch, projector)",
}

var queryBatteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Query the battery level from the bottom MCU",
	RunE: func(cmd *cobra.Command, args []string) error {
		return br.Send(catalog.BatteryQuery())
	},
}

var (
	gyroAccel   int8
	gyroCompass int8
)

var queryGyroCmd = &cobra.Command{
	Use:   "gyro",
	Short: "Query gyroscope and compass status (-1 omits a field)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return br.Send(catalog.GyroQuery(gyroAccel, gyroCompass))
	},
}

var (
	touchTurnal int8
	touchInfo   int8
)

var queryTouchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Query a touch sensor channel (routing follows the channel)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return br.Send(catalog.TouchQuery(touchTurnal, touchInfo))
	},
}

var queryProjectorCmd = &cobra.Command{
	Use:   "projector",
	Short: "Query projector power and connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := br.Send(catalog.ProjectorStatusQuery()); err != nil {
			return err
		}
		return br.Send(catalog.ProjectorConnectionQuery())
	},
}

func init() {
	queryGyroCmd.Flags().Int8Var(&gyroAccel, "accel", -1, "accelerometer status byte, -1 to omit")
	queryGyroCmd.Flags().Int8Var(&gyroCompass, "compass", -1, "compass status byte, -1 to omit")

	queryTouchCmd.Flags().Int8Var(&touchTurnal, "channel", -1, "touch channel, -1 to omit")
	queryTouchCmd.Flags().Int8Var(&touchInfo, "info", -1, "touch info byte, -1 to omit")

	queryCmd.AddCommand(queryBatteryCmd)
	queryCmd.AddCommand(queryGyroCmd)
	queryCmd.AddCommand(queryTouchCmd)
	queryCmd.AddCommand(queryProjectorCmd)
}
