package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/bridge"
	cfgpkg "github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/config"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/usb"
)

var (
	cfgFile string
	debug   bool // --debug: 仅打印十六进制帧，不触达硬件

	br      *bridge.Bridge
	cleanup func()
)

// hexDumpTransport 调试模式传输：把路由缓冲打到标准输出
type hexDumpTransport struct{}

func (hexDumpTransport) SendToPoint(routed []byte) {
	fmt.Println(hex.EncodeToString(routed))
}

func (hexDumpTransport) Flush() {}

var rootCmd = &cobra.Command{
	Use:   "sanbotctl",
	Short: "Sanbot MCU command-line tool: drive wheels, head, arms, LEDs and queries over USB",
	Long: `sanbotctl assembles Sanbot serial frames and hands them to the head or
bottom MCU over USB bulk transfer. With --debug it prints the routed
frames as hex instead of touching the hardware.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if br != nil {
			// 测试注入过传输层
			return nil
		}
		cfg, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if debug {
			br = bridge.New(hexDumpTransport{}, byte(cfg.Bridge.AckFlag))
			return nil
		}
		opener := usb.NewGousbOpener(zap.NewNop())
		manager := usb.New(usb.Config{
			VendorID:        uint16(cfg.USB.VendorID),
			HeadProductID:   uint16(cfg.USB.HeadProductID),
			BottomProductID: uint16(cfg.USB.BottomProductID),
			WriteRate:       cfg.USB.WriteRate,
			WriteBurst:      cfg.USB.WriteBurst,
		}, opener)
		br = bridge.New(manager, byte(cfg.Bridge.AckFlag))
		cleanup = func() {
			_ = manager.Close()
			_ = opener.Close()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if br != nil {
			br.Flush()
		}
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

// Execute 运行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// SetBridge 测试注入传输层
func SetBridge(b *bridge.Bridge) {
	br = b
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print frames as hex instead of writing to USB")

	rootCmd.AddCommand(wheelCmd)
	rootCmd.AddCommand(headCmd)
	rootCmd.AddCommand(armCmd)
	rootCmd.AddCommand(ledCmd)
	rootCmd.AddCommand(heartbeatCmd)
	rootCmd.AddCommand(projectorCmd)
	rootCmd.AddCommand(motorDefendCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(scriptCmd)
}
