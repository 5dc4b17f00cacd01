package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPConfig HTTP 控制台配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// USBConfig USB 传输层配置。产品号默认对应 Sanbot 头部/底部 MCU。
type USBConfig struct {
	VendorID        int     `mapstructure:"vendorId"`
	HeadProductID   int     `mapstructure:"headProductId"`
	BottomProductID int     `mapstructure:"bottomProductId"`
	WriteRate       float64 `mapstructure:"writeRate"`
	WriteBurst      int     `mapstructure:"writeBurst"`
}

// BridgeConfig 指令封装默认值
type BridgeConfig struct {
	AckFlag int `mapstructure:"ackFlag"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// Config 顶层配置结构
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	USB     USBConfig     `mapstructure:"usb"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则回退到 configs/example.yaml；允许配置文件缺失，
// 仅靠默认值与 SANBOT_ 前缀的环境变量运行。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	// 环境变量覆盖：前缀 SANBOT_，点号替换为下划线
	v.SetEnvPrefix("SANBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验取值范围（过大的 id、非法 ack）。
func (c *Config) Validate() error {
	if c.USB.VendorID < 0 || c.USB.VendorID > 0xFFFF {
		return fmt.Errorf("usb.vendorId out of range: %d", c.USB.VendorID)
	}
	if c.USB.HeadProductID < 0 || c.USB.HeadProductID > 0xFFFF {
		return fmt.Errorf("usb.headProductId out of range: %d", c.USB.HeadProductID)
	}
	if c.USB.BottomProductID < 0 || c.USB.BottomProductID > 0xFFFF {
		return fmt.Errorf("usb.bottomProductId out of range: %d", c.USB.BottomProductID)
	}
	if c.Bridge.AckFlag < 0 || c.Bridge.AckFlag > 0xFF {
		return fmt.Errorf("bridge.ackFlag out of range: %d", c.Bridge.AckFlag)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sanbot-mcu-bridge")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("usb.vendorId", 0x0483)
	v.SetDefault("usb.headProductId", 0x5741)
	v.SetDefault("usb.bottomProductId", 0x5740)
	v.SetDefault("usb.writeRate", 0)
	v.SetDefault("usb.writeBurst", 1)

	v.SetDefault("bridge.ackFlag", 0x01)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/sanbot-bridge.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 7)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")
}
