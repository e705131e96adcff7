// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// envsim emits a deterministic temperature/pressure/humidity signal as
// line-delimited records, standing in for a real sensor in integration
// tests. SIGINT or SIGTERM stops it cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/relabs-tech/envsim/internal/app"
	"github.com/relabs-tech/envsim/internal/config"
	"github.com/relabs-tech/envsim/internal/emitter"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"interval":         "INTERVAL",
	"max-ticks":        "MAX_TICKS",
	"format":           "FORMAT",
	"separator":        "SEPARATOR",
	"source":           "SOURCE",
	"sink":             "SINK",
	"file":             "FILE_PATH",
	"file-max-size-mb": "FILE_MAX_SIZE_MB",
	"file-max-backups": "FILE_MAX_BACKUPS",
	"mqtt-broker":      "MQTT_BROKER",
	"mqtt-client-id":   "MQTT_CLIENT_ID",
	"mqtt-topic":       "MQTT_TOPIC",
	"mqtt-qos":         "MQTT_QOS",
	"serial-port":      "SERIAL_PORT",
	"serial-baud":      "SERIAL_BAUD_RATE",
	"ws-addr":          "WS_LISTEN_ADDR",
	"ws-path":          "WS_PATH",
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Printf("envsim: %v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns the status carried by the first error in err's chain
// that has one, or 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

func run(args []string) error {
	// Records own stdout; logs go to stderr.
	log.SetOutput(os.Stderr)

	def := config.Default()
	flagSet := pflag.NewFlagSet("envsim", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "KEY=VALUE or YAML config file")
	flagSet.Float64("interval", def.Interval.Seconds(), "seconds between records")
	flagSet.Int("max-ticks", def.MaxTicks, "stop after this many records (0 = run until interrupted)")
	flagSet.String("format", def.Format, "record format: gs, xdr or json")
	flagSet.String("separator", fmt.Sprintf("0x%02x", def.Separator), "field separator byte for the gs format")
	flagSet.String("source", def.Source, "reading source: generator or periph")
	flagSet.String("sink", def.Sink, "output: stdout, file, mqtt, serial or ws")
	flagSet.String("file", def.FilePath, "file sink path")
	flagSet.Int("file-max-size-mb", def.FileMaxSizeMB, "rotate the file sink at this size")
	flagSet.Int("file-max-backups", def.FileMaxBackups, "rotated files to keep")
	flagSet.String("mqtt-broker", def.MQTTBroker, "MQTT broker URL")
	flagSet.String("mqtt-client-id", def.MQTTClientID, "MQTT client ID")
	flagSet.String("mqtt-topic", def.MQTTTopic, "MQTT topic")
	flagSet.Int("mqtt-qos", int(def.MQTTQoS), "MQTT QoS (0-2)")
	flagSet.String("serial-port", def.SerialPort, "serial device")
	flagSet.Int("serial-baud", def.SerialBaudRate, "serial baud rate")
	flagSet.String("ws-addr", def.WSListenAddr, "websocket listen address")
	flagSet.String("ws-path", def.WSPath, "websocket path")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &emitter.ConfigError{Field: "arguments", Reason: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return &emitter.ConfigError{Field: "arguments", Reason: fmt.Sprintf("unexpected %q", flagSet.Args())}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return &emitter.ConfigError{Field: "config file", Reason: err.Error()}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return &emitter.ConfigError{Field: "environment", Reason: err.Error()}
	}

	var flagErr error
	flagSet.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || flagErr != nil {
			return
		}
		if err := cfg.Set(key, f.Value.String()); err != nil {
			flagErr = &emitter.ConfigError{Field: "--" + f.Name, Reason: err.Error()}
		}
	})
	if flagErr != nil {
		return flagErr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("starting envsim telemetry simulator")
	outcome, err := app.RunProducer(ctx, cfg, os.Stdout, log.Default())
	if err != nil {
		return err
	}
	if outcome == emitter.OutcomeCancelled {
		log.Println("envsim: stopped on signal")
	}
	return nil
}
