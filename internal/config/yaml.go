// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors Config for YAML files. Pointers distinguish an
// explicit zero from an absent key.
type yamlConfig struct {
	Interval  *float64 `yaml:"interval"` // seconds
	MaxTicks  *int     `yaml:"maxTicks"`
	Format    *string  `yaml:"format"`
	Separator *uint8   `yaml:"separator"`
	Source    *string  `yaml:"source"`
	Sink      *string  `yaml:"sink"`

	File struct {
		Path       *string `yaml:"path"`
		MaxSizeMB  *int    `yaml:"maxSizeMB"`
		MaxBackups *int    `yaml:"maxBackups"`
	} `yaml:"file"`

	MQTT struct {
		Broker   *string `yaml:"broker"`
		ClientID *string `yaml:"clientID"`
		Topic    *string `yaml:"topic"`
		QoS      *uint8  `yaml:"qos"`
	} `yaml:"mqtt"`

	Serial struct {
		Port     *string `yaml:"port"`
		BaudRate *int    `yaml:"baudRate"`
	} `yaml:"serial"`

	WebSocket struct {
		Addr *string `yaml:"addr"`
		Path *string `yaml:"path"`
	} `yaml:"websocket"`
}

func (c *Config) loadYAML(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}

	var y yamlConfig
	if err := yaml.Unmarshal(data, &y); err != nil {
		return fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	if y.Interval != nil {
		c.Interval = time.Duration(*y.Interval * float64(time.Second))
	}
	setIf(&c.MaxTicks, y.MaxTicks)
	setIf(&c.Format, y.Format)
	setIf(&c.Separator, y.Separator)
	setIf(&c.Source, y.Source)
	setIf(&c.Sink, y.Sink)

	setIf(&c.FilePath, y.File.Path)
	setIf(&c.FileMaxSizeMB, y.File.MaxSizeMB)
	setIf(&c.FileMaxBackups, y.File.MaxBackups)

	setIf(&c.MQTTBroker, y.MQTT.Broker)
	setIf(&c.MQTTClientID, y.MQTT.ClientID)
	setIf(&c.MQTTTopic, y.MQTT.Topic)
	if y.MQTT.QoS != nil {
		if *y.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0-2, got %d", *y.MQTT.QoS)
		}
		c.MQTTQoS = *y.MQTT.QoS
	}

	setIf(&c.SerialPort, y.Serial.Port)
	setIf(&c.SerialBaudRate, y.Serial.BaudRate)

	setIf(&c.WSListenAddr, y.WebSocket.Addr)
	setIf(&c.WSPath, y.WebSocket.Path)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
