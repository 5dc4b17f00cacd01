package usb

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

var (
	// ErrNoDevice 未枚举到匹配 vendor/product 的设备
	ErrNoDevice = errors.New("usb: no matching device")
	// ErrNoBulkOut 所有候选设备都没有可认领的 bulk OUT 端点
	ErrNoBulkOut = errors.New("usb: no claimable bulk OUT endpoint")
)

// GousbOpener 基于 libusb-1.0（gousb）的设备打开器。
// 打开流程：枚举匹配设备 → 自动分离占用内核驱动 → 遍历活动配置的
// 接口/备用设置找 bulk OUT（顺带 bulk IN）→ 认领接口。
type GousbOpener struct {
	ctx    *gousb.Context
	logger *zap.Logger
}

// NewGousbOpener 创建打开器（持有进程级 libusb 上下文）。
func NewGousbOpener(logger *zap.Logger) *GousbOpener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GousbOpener{ctx: gousb.NewContext(), logger: logger}
}

// Close 释放 libusb 上下文。所有 Port 必须先行关闭。
func (o *GousbOpener) Close() error {
	return o.ctx.Close()
}

// Open 打开第一台可用设备。逐台尝试认领，失败即关；全部失败时
// 返回 ErrNoDevice / ErrNoBulkOut，由传输层按失败阈值策略重试。
func (o *GousbOpener) Open(vid, pid uint16) (Port, error) {
	devs, err := o.ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		return d.Vendor == gousb.ID(vid) && d.Product == gousb.ID(pid)
	})
	// OpenDevices 可能带着部分已打开的设备返回错误；仍逐一尝试
	if len(devs) == 0 {
		if err != nil {
			return nil, fmt.Errorf("enumerate devices: %w", err)
		}
		return nil, ErrNoDevice
	}

	var port Port
	for _, dev := range devs {
		if port != nil {
			_ = dev.Close()
			continue
		}
		p, claimErr := o.claim(dev)
		if claimErr != nil {
			o.logger.Debug("claim failed",
				zap.String("device", dev.String()),
				zap.Error(claimErr))
			_ = dev.Close()
			continue
		}
		port = p
	}
	if port == nil {
		return nil, ErrNoBulkOut
	}
	return port, nil
}

// claim 在设备的活动配置里找第一个带 bulk OUT 端点的接口/备用设置并认领。
func (o *GousbOpener) claim(dev *gousb.Device) (*gousbPort, error) {
	if err := dev.SetAutoDetach(true); err != nil {
		// 平台不支持时继续尝试认领
		o.logger.Debug("auto-detach unsupported", zap.Error(err))
	}

	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return nil, fmt.Errorf("active config: %w", err)
	}
	cfgDesc, ok := dev.Desc.Configs[cfgNum]
	if !ok {
		return nil, fmt.Errorf("config %d not described", cfgNum)
	}

	for _, ifd := range cfgDesc.Interfaces {
		for _, alt := range ifd.AltSettings {
			outDesc, inDesc, found := bulkEndpoints(alt)
			if !found {
				continue
			}

			cfg, err := dev.Config(cfgNum)
			if err != nil {
				continue
			}
			intf, err := cfg.Interface(alt.Number, alt.Alternate)
			if err != nil {
				_ = cfg.Close()
				continue
			}
			out, err := intf.OutEndpoint(outDesc.Number)
			if err != nil {
				intf.Close()
				_ = cfg.Close()
				continue
			}
			var in *gousb.InEndpoint
			if inDesc != nil {
				// IN 端点缺失不致命，本核心只做下行
				in, _ = intf.InEndpoint(inDesc.Number)
			}

			o.logger.Info("bulk interface claimed",
				zap.String("device", dev.String()),
				zap.Int("interface", alt.Number),
				zap.Int("alt", alt.Alternate),
				zap.Stringer("out_ep", outDesc.Address))
			return &gousbPort{dev: dev, cfg: cfg, intf: intf, out: out, in: in}, nil
		}
	}
	return nil, ErrNoBulkOut
}

// bulkEndpoints 在备用设置里选第一个 bulk OUT 与 bulk IN 端点。
func bulkEndpoints(alt gousb.InterfaceSetting) (out, in *gousb.EndpointDesc, found bool) {
	for _, ep := range alt.Endpoints {
		ep := ep
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionIn {
			if in == nil {
				in = &ep
			}
		} else if out == nil {
			out = &ep
		}
	}
	return out, in, out != nil
}

// gousbPort 已认领接口的批量传输端。
type gousbPort struct {
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

func (p *gousbPort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func (p *gousbPort) Close() error {
	p.intf.Close()
	cfgErr := p.cfg.Close()
	devErr := p.dev.Close()
	if cfgErr != nil {
		return cfgErr
	}
	return devErr
}
