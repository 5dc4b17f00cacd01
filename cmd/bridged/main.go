package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/api"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/bridge"
	cfgpkg "github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/config"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/health"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/httpserver"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/logging"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/metrics"
	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/usb"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to configs/example.yaml)")
	flag.Parse()

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 指标注册与处理器
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)
	metricsHandler := metrics.Handler(reg)

	// 4) USB 传输层
	opener := usb.NewGousbOpener(log.With(zap.String("component", "usb")))
	manager := usb.New(usb.Config{
		VendorID:        uint16(cfg.USB.VendorID),
		HeadProductID:   uint16(cfg.USB.HeadProductID),
		BottomProductID: uint16(cfg.USB.BottomProductID),
		WriteRate:       cfg.USB.WriteRate,
		WriteBurst:      cfg.USB.WriteBurst,
	}, opener,
		usb.WithLogger(log.With(zap.String("component", "usb"))),
		usb.WithMetrics(appm))

	// 5) 指令封装层
	br := bridge.New(manager, byte(cfg.Bridge.AckFlag),
		bridge.WithLogger(log.With(zap.String("component", "bridge"))),
		bridge.WithMetrics(appm))

	// 6) 健康检查
	aggregator := health.NewAggregator(health.NewUSBChecker(manager))

	// 7) HTTP 控制台
	handler := api.NewHandler(br, manager, byte(cfg.Bridge.AckFlag),
		log.With(zap.String("component", "api")))
	httpSrv := httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler,
		func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return aggregator.Ready(ctx)
		},
		func(r *gin.Engine) {
			api.RegisterRoutes(r, handler)
			health.RegisterHTTPRoutes(r, aggregator)
		})

	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()
	log.Info("bridge daemon started",
		zap.String("addr", cfg.HTTP.Addr),
		zap.Int("vendorId", cfg.USB.VendorID))

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	manager.Flush()
	_ = manager.Close()
	_ = opener.Close()
	log.Info("bridge daemon stopped")
}
