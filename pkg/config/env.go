package config

import "os"

// Environment variables that override deployment-specific settings.
const (
	EnvSerialPort = "ESPRESSO_SERIAL_PORT"
	EnvMQTTBroker = "ESPRESSO_MQTT_BROKER"
)

// ApplyEnv overrides transport endpoints from the process environment.
// An unset variable leaves the configured value untouched; a variable set
// to "off" disables the transport.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvSerialPort); ok {
		c.Telemetry.SerialPort = envValue(v)
	}
	if v, ok := os.LookupEnv(EnvMQTTBroker); ok {
		c.Telemetry.MQTTBroker = envValue(v)
	}
}

func envValue(v string) string {
	if v == "off" {
		return ""
	}
	return v
}
