package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/protocol/sanbot"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/script"
)

var rawTag string

var rawCmd = &cobra.Command{
	Use:   "raw <mode> [byte...]",
	Short: "Assemble and send an arbitrary command (-1 marks an omitted byte)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := catalog.ParseByte(args[0])
		if err != nil {
			return err
		}
		tag, err := catalog.ParsePointTag(rawTag)
		if err != nil {
			return err
		}

		ordered := make([]sanbot.Byte, 0, len(args)-1)
		for _, raw := range args[1:] {
			v, err := strconv.ParseInt(raw, 0, 16)
			if err != nil || v < -1 || v > 0xFF {
				return fmt.Errorf("invalid data byte %q", raw)
			}
			if v == -1 {
				ordered = append(ordered, sanbot.Absent())
				continue
			}
			ordered = append(ordered, sanbot.B(byte(v)))
		}

		payload := sanbot.CommandPayload{Mode: mode, OrderedBytes: ordered}
		return br.SendRaw(payload, tag)
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script <file>",
	Short: "Run a YAML motion script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := script.Load(args[0])
		if err != nil {
			return err
		}
		return script.Run(br, s, nil)
	},
}

func init() {
	rawCmd.Flags().StringVar(&rawTag, "tag", "bottom", "routing target (head, bottom, broadcast)")
}
