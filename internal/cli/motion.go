package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
)

var (
	wheelSpeed        uint8
	wheelDuration     uint16
	wheelDurationMode uint8
	wheelAngle        int
	wheelDistance     int
)

var wheelCmd = &cobra.Command{
	Use:   "wheel <action>",
	Short: "Drive the wheel group (forward, back, left, right, turn-left, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := catalog.ParseWheelAction(args[0])
		if err != nil {
			return err
		}
		switch {
		case wheelDistance >= 0:
			return br.Send(catalog.WheelDistance(action, wheelSpeed, uint16(wheelDistance)))
		case wheelAngle >= 0:
			return br.Send(catalog.WheelRelativeAngle(action, wheelSpeed, uint16(wheelAngle)))
		default:
			return br.Send(catalog.WheelNoAngle(action, wheelSpeed, wheelDuration, wheelDurationMode))
		}
	},
}

var (
	wheelTime   uint16
	wheelDegree uint8
)

var wheelTimedCmd = &cobra.Command{
	Use:   "timed <action>",
	Short: "Timed wheel motion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := catalog.ParseWheelAction(args[0])
		if err != nil {
			return err
		}
		return br.Send(catalog.WheelTimed(action, wheelTime, wheelDegree))
	},
}

var (
	headSpeed uint8
	headAngle int
	headAxis  string
)

var headCmd = &cobra.Command{
	Use:   "head <action>",
	Short: "Move the head (up, down, left, right, centre-reset, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if headAxis != "" {
			axis, err := catalog.ParseHeadAxis(headAxis)
			if err != nil {
				return err
			}
			if headAngle < 0 {
				headAngle = 0
			}
			return br.Send(catalog.HeadAbsoluteAngle(axis, uint16(headAngle)))
		}
		action, err := catalog.ParseHeadAction(args[0])
		if err != nil {
			return err
		}
		if headAngle >= 0 {
			return br.Send(catalog.HeadRelativeAngle(action, uint16(headAngle)))
		}
		return br.Send(catalog.HeadNoAngle(action, headSpeed))
	},
}

var (
	locateLock     string
	locateHAngle   uint16
	locateVAngle   uint16
	locateRelative bool
	locateHDir     uint8
	locateVDir     uint8
)

var headLocateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Two-axis head positioning (absolute, or relative with per-axis directions)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := catalog.ParseHeadLock(locateLock)
		if err != nil {
			return err
		}
		if locateRelative {
			// 相对定位的角度是单字节
			if locateHAngle > 0xFF || locateVAngle > 0xFF {
				return fmt.Errorf("relative locate angles must fit a byte")
			}
			return br.Send(catalog.HeadLocateRelative(lock,
				byte(locateHAngle), byte(locateVAngle), locateHDir, locateVDir))
		}
		return br.Send(catalog.HeadLocateAbsolute(lock, locateHAngle, locateVAngle))
	},
}

var headCentreLockCmd = &cobra.Command{
	Use:   "centre-lock",
	Short: "Re-centre the head and lock both axes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return br.Send(catalog.HeadCentreLock())
	},
}

var (
	armSpeed         uint8
	armAngle         int
	armAbsoluteAngle int
)

var armCmd = &cobra.Command{
	Use:   "arm <part> [action]",
	Short: "Move an arm (part: left, right, both; action: up, down, stop, reset)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		part, err := catalog.ParseArmPart(args[0])
		if err != nil {
			return err
		}
		if armAbsoluteAngle >= 0 {
			return br.Send(catalog.ArmAbsoluteAngle(part, armSpeed, uint16(armAbsoluteAngle)))
		}
		if len(args) < 2 {
			return fmt.Errorf("arm requires an action unless --absolute-angle is set")
		}
		action, err := catalog.ParseArmAction(args[1])
		if err != nil {
			return err
		}
		if armAngle >= 0 {
			return br.Send(catalog.ArmRelativeAngle(part, armSpeed, action, uint16(armAngle)))
		}
		return br.Send(catalog.ArmNoAngle(part, armSpeed, action))
	},
}

func init() {
	wheelCmd.Flags().Uint8Var(&wheelSpeed, "speed", 0x05, "motion speed byte")
	wheelCmd.Flags().Uint16Var(&wheelDuration, "duration", 0, "motion duration")
	wheelCmd.Flags().Uint8Var(&wheelDurationMode, "duration-mode", 0, "duration interpretation byte")
	wheelCmd.Flags().IntVar(&wheelAngle, "angle", -1, "relative turn angle (selects the angle form)")
	wheelCmd.Flags().IntVar(&wheelDistance, "distance", -1, "travel distance (selects the distance form)")

	wheelTimedCmd.Flags().Uint16Var(&wheelTime, "time", 0, "motion time")
	wheelTimedCmd.Flags().Uint8Var(&wheelDegree, "degree", 0, "motion degree byte")
	wheelCmd.AddCommand(wheelTimedCmd)

	headLocateCmd.Flags().StringVar(&locateLock, "lock", "no-lock", "axis lock (no-lock, horizontal-lock, vertical-lock, both-lock)")
	headLocateCmd.Flags().Uint16Var(&locateHAngle, "h-angle", 0, "horizontal angle")
	headLocateCmd.Flags().Uint16Var(&locateVAngle, "v-angle", 0, "vertical angle")
	headLocateCmd.Flags().BoolVar(&locateRelative, "relative", false, "relative positioning with per-axis directions")
	headLocateCmd.Flags().Uint8Var(&locateHDir, "h-dir", 0, "horizontal direction byte (relative form)")
	headLocateCmd.Flags().Uint8Var(&locateVDir, "v-dir", 0, "vertical direction byte (relative form)")
	headCmd.AddCommand(headLocateCmd)
	headCmd.AddCommand(headCentreLockCmd)

	headCmd.Flags().Uint8Var(&headSpeed, "speed", 0x05, "motion speed byte")
	headCmd.Flags().IntVar(&headAngle, "angle", -1, "motion angle")
	headCmd.Flags().StringVar(&headAxis, "axis", "", "absolute motion axis (vertical, horizontal)")

	armCmd.Flags().Uint8Var(&armSpeed, "speed", 0x05, "motion speed byte")
	armCmd.Flags().IntVar(&armAngle, "angle", -1, "relative motion angle")
	armCmd.Flags().IntVar(&armAbsoluteAngle, "absolute-angle", -1, "absolute target angle")
}
