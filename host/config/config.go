// Package config loads the tmc-host JSON configuration
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tmc2209/host/serial"
	"tmc2209/tmc"
	"tmc2209/units"
)

// Config describes one TMC2209 attached to a host UART
type Config struct {
	Device        string  `json:"device"`
	Baud          int     `json:"baud"`
	ReadTimeoutMs int     `json:"read_timeout_ms"`
	Slave         uint8   `json:"slave"`
	Async         bool    `json:"async"`
	Rsense        float64 `json:"rsense"`

	Setup *Setup `json:"setup,omitempty"`
	Pins  *Pins  `json:"pins,omitempty"`
	MQTT  *MQTT  `json:"mqtt,omitempty"`
}

// Setup is applied to the chip once after connecting
type Setup struct {
	RunCurrentMa         uint16  `json:"run_current_ma"`
	HoldFraction         float64 `json:"hold_fraction"`
	Microsteps           uint16  `json:"microsteps"`
	Interpolation        *bool   `json:"interpolation,omitempty"`
	SpreadCycle          bool    `json:"spreadcycle"`
	StealthChopThreshold float64 `json:"stealthchop_threshold"` // full steps per second
	StallThreshold       uint8   `json:"stall_threshold"`
	CoolStepThreshold    uint32  `json:"coolstep_threshold"`
}

// Pins names the GPIO lines wired to the driver board
type Pins struct {
	Chip   string `json:"chip"`
	Enable int    `json:"enable"` // active low EN, -1 if not wired
	Diag   int    `json:"diag"`   // StallGuard DIAG output, -1 if not wired
}

// UnmarshalJSON treats an omitted line as not wired
func (p *Pins) UnmarshalJSON(data []byte) error {
	type plain Pins
	v := plain{Enable: -1, Diag: -1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Pins(v)
	return nil
}

// MQTT configures status publishing
type MQTT struct {
	Broker     string `json:"broker"`
	Topic      string `json:"topic"`
	IntervalMs int    `json:"interval_ms"`
}

// LoadConfig parses a JSON configuration and fills in defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// Default returns the configuration used without a config file
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *Config) {
	def := serial.DefaultConfig("/dev/ttyUSB0")

	if config.Device == "" {
		config.Device = def.Device
	}
	if config.Baud == 0 {
		config.Baud = def.Baud
	}
	if config.ReadTimeoutMs == 0 {
		config.ReadTimeoutMs = def.ReadTimeout
	}
	if config.Rsense == 0 {
		config.Rsense = units.DefaultRsense
	}

	if config.Setup != nil && config.Setup.HoldFraction == 0 {
		config.Setup.HoldFraction = 0.5
	}

	if config.Pins != nil && config.Pins.Chip == "" {
		config.Pins.Chip = "gpiochip0"
	}

	if config.MQTT != nil {
		if config.MQTT.Topic == "" {
			config.MQTT.Topic = fmt.Sprintf("tmc2209/%d", config.Slave)
		}
		if config.MQTT.IntervalMs == 0 {
			config.MQTT.IntervalMs = 1000
		}
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Slave > 3 {
		return fmt.Errorf("slave address %d out of range 0-3", c.Slave)
	}
	if c.Rsense < 0 {
		return fmt.Errorf("rsense must be positive, got %g", c.Rsense)
	}
	if c.Setup != nil && (c.Setup.HoldFraction < 0 || c.Setup.HoldFraction > 1) {
		return fmt.Errorf("hold_fraction must be within 0-1, got %g", c.Setup.HoldFraction)
	}
	if c.MQTT != nil && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt block requires a broker")
	}
	return nil
}

// Serial returns the port settings
func (c *Config) Serial() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeoutMs,
	}
}

// Timeout bounds a single transaction on the cooperative binding
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// DriverSetup converts the setup block for tmc.Driver.Apply
func (c *Config) DriverSetup() (tmc.Setup, bool) {
	if c.Setup == nil {
		return tmc.Setup{}, false
	}
	return tmc.Setup{
		RunCurrent:           c.Setup.RunCurrentMa,
		HoldFraction:         c.Setup.HoldFraction,
		Rsense:               c.Rsense,
		Microsteps:           c.Setup.Microsteps,
		Interpolate:          c.Setup.Interpolation,
		SpreadCycle:          c.Setup.SpreadCycle,
		StealthChopThreshold: c.Setup.StealthChopThreshold,
		StallThreshold:       c.Setup.StallThreshold,
		CoolStepThreshold:    c.Setup.CoolStepThreshold,
	}, true
}
