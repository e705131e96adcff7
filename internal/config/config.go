// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Sink names accepted by SINK.
const (
	SinkStdout    = "stdout"
	SinkFile      = "file"
	SinkMQTT      = "mqtt"
	SinkSerial    = "serial"
	SinkWebSocket = "ws"
)

// Reading source names accepted by SOURCE.
const (
	SourceGenerator = "generator"
	SourcePeriph    = "periph"
)

// EnvPrefix is prepended to config keys when reading environment overrides.
const EnvPrefix = "ENVSIM_"

// Config holds all simulator configuration values.
type Config struct {
	// Emission
	Interval  time.Duration
	MaxTicks  int    // 0 = unbounded
	Format    string // gs, xdr or json
	Separator byte   // field separator for the gs format
	Source    string // generator or periph

	// Output
	Sink string

	// File sink
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int

	// MQTT sink
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	MQTTQoS      byte

	// Serial sink
	SerialPort     string
	SerialBaudRate int

	// WebSocket sink
	WSListenAddr string
	WSPath       string
}

// Keys lists every config key in file order.
var Keys = []string{
	"INTERVAL",
	"MAX_TICKS",
	"FORMAT",
	"SEPARATOR",
	"SOURCE",
	"SINK",
	"FILE_PATH",
	"FILE_MAX_SIZE_MB",
	"FILE_MAX_BACKUPS",
	"MQTT_BROKER",
	"MQTT_CLIENT_ID",
	"MQTT_TOPIC",
	"MQTT_QOS",
	"SERIAL_PORT",
	"SERIAL_BAUD_RATE",
	"WS_LISTEN_ADDR",
	"WS_PATH",
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Interval:  time.Second,
		Format:    "gs",
		Separator: 0x1D,
		Source:    SourceGenerator,
		Sink:      SinkStdout,

		FilePath:       "envsim.log",
		FileMaxSizeMB:  10,
		FileMaxBackups: 3,

		MQTTBroker:   "tcp://localhost:1883",
		MQTTClientID: "envsim",
		MQTTTopic:    "envsim/readings",

		SerialPort:     "/dev/ttyUSB0",
		SerialBaudRate: 9600,

		WSListenAddr: ":8081",
		WSPath:       "/records",
	}
}

// Load reads the configuration file on top of the defaults. Files ending
// in .yaml or .yml are parsed as YAML, anything else as KEY=VALUE lines.
// The result is not validated.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := cfg.loadYAML(configPath); err != nil {
			return nil, err
		}
	default:
		if err := cfg.loadKeyValue(configPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) loadKeyValue(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides values from ENVSIM_<KEY> variables found by lookup.
// Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range Keys {
		value, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
	}
	return nil
}

// Set assigns a single value by key.
func (c *Config) Set(key, value string) error {
	switch key {
	// Emission
	case "INTERVAL":
		secs, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid INTERVAL %q: %w", value, err)
		}
		c.Interval = time.Duration(secs * float64(time.Second))
	case "MAX_TICKS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAX_TICKS %q: %w", value, err)
		}
		c.MaxTicks = n
	case "FORMAT":
		c.Format = value
	case "SEPARATOR":
		sep, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid SEPARATOR %q: %w", value, err)
		}
		c.Separator = byte(sep)
	case "SOURCE":
		c.Source = value

	// Output
	case "SINK":
		c.Sink = value

	// File sink
	case "FILE_PATH":
		c.FilePath = value
	case "FILE_MAX_SIZE_MB":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FILE_MAX_SIZE_MB %q: %w", value, err)
		}
		c.FileMaxSizeMB = n
	case "FILE_MAX_BACKUPS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FILE_MAX_BACKUPS %q: %w", value, err)
		}
		c.FileMaxBackups = n

	// MQTT sink
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "MQTT_TOPIC":
		c.MQTTTopic = value
	case "MQTT_QOS":
		qos, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MQTT_QOS %q: %w", value, err)
		}
		if qos < 0 || qos > 2 {
			return fmt.Errorf("MQTT_QOS must be 0-2, got %d", qos)
		}
		c.MQTTQoS = byte(qos)

	// Serial sink
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// WebSocket sink
	case "WS_LISTEN_ADDR":
		c.WSListenAddr = value
	case "WS_PATH":
		c.WSPath = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}
