package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/espresso-shot/pkg/thermistor"
)

// Target selection modes.
const (
	TargetModeButtons       = "buttons"
	TargetModePotentiometer = "potentiometer"
)

// Config represents the instrument configuration.
type Config struct {
	ADC       ADCConfig        `yaml:"adc"`
	Basket    ThermistorConfig `yaml:"basket"`
	Group     ThermistorConfig `yaml:"group"`
	Target    TargetConfig     `yaml:"target"`
	Periods   PeriodsConfig    `yaml:"periods"`
	GPIO      GPIOConfig       `yaml:"gpio"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Display   DisplayConfig    `yaml:"display"`
	Sim       SimConfig        `yaml:"sim"`
}

// ADCConfig describes the ADS1115 and its channel assignment.
type ADCConfig struct {
	Bus              string  `yaml:"bus"`     // i2c-dev path, e.g. /dev/i2c-1
	Address          uint16  `yaml:"address"` // 7-bit I2C address
	LSB              float32 `yaml:"lsb"`     // volts per count
	ReferenceChannel int     `yaml:"reference_channel"`
	BasketChannel    int     `yaml:"basket_channel"`
	GroupChannel     int     `yaml:"group_channel"`
	TargetChannel    int     `yaml:"target_channel"` // potentiometer wiper (potentiometer mode)
}

// ThermistorConfig contains one thermistor's divider resistor and calibration.
type ThermistorConfig struct {
	KnownResistance float32                 `yaml:"known_resistance"`
	Coefficients    thermistor.Coefficients `yaml:"coefficients"`
}

// TargetConfig bounds the target group temperature.
type TargetConfig struct {
	Min         float32       `yaml:"min"`
	Max         float32       `yaml:"max"`
	Step        float32       `yaml:"step"`
	Default     float32       `yaml:"default"`
	Mode        string        `yaml:"mode"`
	RawMax      int16         `yaml:"raw_max"` // potentiometer full-scale code
	DisplayTime time.Duration `yaml:"display_time"`
}

// PeriodsConfig contains the cadence of each periodic unit of work.
type PeriodsConfig struct {
	Sample    time.Duration `yaml:"sample"`
	Task      time.Duration `yaml:"task"`
	Display   time.Duration `yaml:"display"`
	Telemetry time.Duration `yaml:"telemetry"` // 0 = one record per sample
}

// GPIOConfig contains the Linux GPIO lines of the switches and the fan.
type GPIOConfig struct {
	Chip          string        `yaml:"chip"`
	TiltLine      int           `yaml:"tilt_line"`
	IncreaseLine  int           `yaml:"increase_line"`
	DecreaseLine  int           `yaml:"decrease_line"`
	FanLine       int           `yaml:"fan_line"`
	FanActiveHigh bool          `yaml:"fan_active_high"` // default: active low through an inverting BJT
	Debounce      time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains the byte-stream transports for telemetry records.
type TelemetryConfig struct {
	SerialPort string `yaml:"serial_port"` // empty disables the serial transport
	BaudRate   int    `yaml:"baud_rate"`
	MQTTBroker string `yaml:"mqtt_broker"` // empty disables the MQTT transport
	MQTTTopic  string `yaml:"mqtt_topic"`
	MQTTClient string `yaml:"mqtt_client"`
}

// DisplayConfig contains the OLED panel settings.
type DisplayConfig struct {
	Headless bool   `yaml:"headless"` // no OLED panel attached
	Bus      string `yaml:"bus"`
	Address  uint16 `yaml:"address"`
}

// SimConfig contains the simulated machine parameters.
type SimConfig struct {
	Ambient         float32       `yaml:"ambient"`          // °C
	Boiler          float32       `yaml:"boiler"`           // °C, group equilibrium with the fan off
	Brew            float32       `yaml:"brew"`             // °C, basket temperature while pulling
	GroupTau        time.Duration `yaml:"group_tau"`        // group thermal time constant
	BasketTau       time.Duration `yaml:"basket_tau"`       // basket thermal time constant
	FanCooling      float32       `yaml:"fan_cooling"`      // °C drop of the group equilibrium with the fan on
	NoiseLevel      float32       `yaml:"noise_level"`      // volts
	SupplyVoltage   float32       `yaml:"supply_voltage"`   // divider reference
	KnownResistance float32       `yaml:"known_resistance"` // simulated divider resistor
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	coeffs := thermistor.Coefficients{
		A: 0.7729151421e-3,
		B: 2.052737727e-4,
		C: 1.427250141e-7,
	}
	return &Config{
		ADC: ADCConfig{
			Bus:              "/dev/i2c-1",
			Address:          0x48,
			LSB:              thermistor.DefaultLSB,
			ReferenceChannel: 0,
			BasketChannel:    1,
			GroupChannel:     2,
			TargetChannel:    3,
		},
		Basket: ThermistorConfig{KnownResistance: 9940, Coefficients: coeffs},
		Group:  ThermistorConfig{KnownResistance: 9940, Coefficients: coeffs},
		Target: TargetConfig{
			Min:         88.0,
			Max:         98.0,
			Step:        0.5,
			Default:     93.0,
			Mode:        TargetModeButtons,
			RawMax:      26400, // 4.95V wiper at the ±6.144V gain
			DisplayTime: time.Second,
		},
		Periods: PeriodsConfig{
			Sample:  10 * time.Millisecond,
			Task:    10 * time.Millisecond,
			Display: 250 * time.Millisecond,
		},
		GPIO: GPIOConfig{
			Chip:         "gpiochip0",
			TiltLine:     17,
			IncreaseLine: 27,
			DecreaseLine: 22,
			FanLine:      12,
			Debounce:     20 * time.Millisecond,
		},
		Telemetry: TelemetryConfig{
			SerialPort: "/dev/ttyS0",
			BaudRate:   115200,
			MQTTTopic:  "espresso/shot/telemetry",
			MQTTClient: "espresso-shot",
		},
		Display: DisplayConfig{
			Bus:     "/dev/i2c-1",
			Address: 0x3C,
		},
		Sim: SimConfig{
			Ambient:         22,
			Boiler:          96,
			Brew:            92,
			GroupTau:        20 * time.Second,
			BasketTau:       3 * time.Second,
			FanCooling:      12,
			NoiseLevel:      0.002,
			SupplyVoltage:   5.0,
			KnownResistance: 9940,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values. Fields present in the file
// win even when empty or zero.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the invariants the control loop relies on.
func (c *Config) Validate() error {
	t := c.Target
	if t.Min >= t.Max {
		return fmt.Errorf("invalid target range: min %.1f must be below max %.1f", t.Min, t.Max)
	}
	if t.Step <= 0 {
		return fmt.Errorf("invalid target step: %.2f", t.Step)
	}
	if t.Default < t.Min || t.Default > t.Max {
		return fmt.Errorf("default target %.1f outside [%.1f, %.1f]", t.Default, t.Min, t.Max)
	}
	if t.Mode != TargetModeButtons && t.Mode != TargetModePotentiometer {
		return fmt.Errorf("unknown target mode %q", t.Mode)
	}
	if c.Periods.Sample <= 0 || c.Periods.Task <= 0 || c.Periods.Display <= 0 {
		return fmt.Errorf("periods must be positive")
	}
	return nil
}
