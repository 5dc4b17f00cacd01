package script

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/catalog"
)

// Duration 支持 "500ms" 形式的 YAML 时长字段
type Duration time.Duration

// UnmarshalYAML 实现 yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"500ms\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Step 动作脚本中的一步：一条命令加可选的步后停顿。
type Step struct {
	Do    string            `yaml:"do"`
	Args  map[string]string `yaml:"args"`
	Pause Duration          `yaml:"pause"`
}

// Script 动作脚本
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Parse 解析 YAML 脚本并校验每一步可解析为命令
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %q has no steps", s.Name)
	}
	for i, step := range s.Steps {
		if step.Do == "pause" {
			continue
		}
		if _, err := step.Command(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// Load 从文件加载脚本
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

func (s Step) arg(name string) (string, error) {
	v, ok := s.Args[name]
	if !ok {
		return "", fmt.Errorf("%s: missing arg %q", s.Do, name)
	}
	return v, nil
}

func (s Step) argByte(name string, def byte) (byte, error) {
	v, ok := s.Args[name]
	if !ok {
		return def, nil
	}
	b, err := catalog.ParseByte(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.Do, err)
	}
	return b, nil
}

func (s Step) argU16(name string, def uint16) (uint16, error) {
	v, ok := s.Args[name]
	if !ok {
		return def, nil
	}
	u, err := catalog.ParseU16(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.Do, err)
	}
	return u, nil
}

// Command 把一步解析为目录命令。"pause" 步没有命令，不应调用本方法。
func (s Step) Command() (catalog.Command, error) {
	var zero catalog.Command
	switch s.Do {
	case "wheel":
		raw, err := s.arg("action")
		if err != nil {
			return zero, err
		}
		action, err := catalog.ParseWheelAction(raw)
		if err != nil {
			return zero, err
		}
		speed, err := s.argByte("speed", 0x05)
		if err != nil {
			return zero, err
		}
		if _, ok := s.Args["distance"]; ok {
			distance, err := s.argU16("distance", 0)
			if err != nil {
				return zero, err
			}
			return catalog.WheelDistance(action, speed, distance), nil
		}
		if _, ok := s.Args["angle"]; ok {
			angle, err := s.argU16("angle", 0)
			if err != nil {
				return zero, err
			}
			return catalog.WheelRelativeAngle(action, speed, angle), nil
		}
		duration, err := s.argU16("duration", 0)
		if err != nil {
			return zero, err
		}
		durationMode, err := s.argByte("durationMode", 0)
		if err != nil {
			return zero, err
		}
		return catalog.WheelNoAngle(action, speed, duration, durationMode), nil

	case "head":
		if raw, ok := s.Args["axis"]; ok {
			axis, err := catalog.ParseHeadAxis(raw)
			if err != nil {
				return zero, err
			}
			angle, err := s.argU16("angle", 0)
			if err != nil {
				return zero, err
			}
			return catalog.HeadAbsoluteAngle(axis, angle), nil
		}
		raw, err := s.arg("action")
		if err != nil {
			return zero, err
		}
		action, err := catalog.ParseHeadAction(raw)
		if err != nil {
			return zero, err
		}
		if _, ok := s.Args["angle"]; ok {
			angle, err := s.argU16("angle", 0)
			if err != nil {
				return zero, err
			}
			return catalog.HeadRelativeAngle(action, angle), nil
		}
		speed, err := s.argByte("speed", 0x05)
		if err != nil {
			return zero, err
		}
		return catalog.HeadNoAngle(action, speed), nil

	case "arm":
		rawPart, err := s.arg("part")
		if err != nil {
			return zero, err
		}
		part, err := catalog.ParseArmPart(rawPart)
		if err != nil {
			return zero, err
		}
		speed, err := s.argByte("speed", 0x05)
		if err != nil {
			return zero, err
		}
		if _, ok := s.Args["absoluteAngle"]; ok {
			angle, err := s.argU16("absoluteAngle", 0)
			if err != nil {
				return zero, err
			}
			return catalog.ArmAbsoluteAngle(part, speed, angle), nil
		}
		rawAction, err := s.arg("action")
		if err != nil {
			return zero, err
		}
		action, err := catalog.ParseArmAction(rawAction)
		if err != nil {
			return zero, err
		}
		if _, ok := s.Args["angle"]; ok {
			angle, err := s.argU16("angle", 0)
			if err != nil {
				return zero, err
			}
			return catalog.ArmRelativeAngle(part, speed, action, angle), nil
		}
		return catalog.ArmNoAngle(part, speed, action), nil

	case "led":
		light, err := s.argByte("light", 0)
		if err != nil {
			return zero, err
		}
		switchMode, err := s.argByte("switch", 1)
		if err != nil {
			return zero, err
		}
		rate, err := s.argByte("rate", 0)
		if err != nil {
			return zero, err
		}
		random, err := s.argByte("random", 0)
		if err != nil {
			return zero, err
		}
		return catalog.LED(light, switchMode, rate, random), nil

	case "heartbeat":
		raw, err := s.arg("target")
		if err != nil {
			return zero, err
		}
		tag, err := catalog.ParsePointTag(raw)
		if err != nil {
			return zero, err
		}
		switchMode, err := s.argByte("switch", 1)
		if err != nil {
			return zero, err
		}
		interval, err := s.argU16("interval", 0)
		if err != nil {
			return zero, err
		}
		return catalog.Heartbeat(tag, switchMode, byte(interval&0xFF), byte(interval>>8)), nil

	case "battery":
		return catalog.BatteryQuery(), nil

	default:
		return zero, fmt.Errorf("unknown step %q", s.Do)
	}
}

// Sender 命令下发接口（由 bridge.Bridge 实现）
type Sender interface {
	Send(cmd catalog.Command) error
	Flush()
}

// Run 顺序执行脚本。sleep 为 nil 时使用 time.Sleep，测试可注入假时钟。
func Run(sender Sender, s *Script, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	for i, step := range s.Steps {
		if step.Do != "pause" {
			cmd, err := step.Command()
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			if err := sender.Send(cmd); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.Pause > 0 {
			sender.Flush()
			sleep(time.Duration(step.Pause))
		}
	}
	sender.Flush()
	return nil
}
