// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/relabs-tech/envsim/internal/config"
	"github.com/relabs-tech/envsim/internal/emitter"
	"github.com/relabs-tech/envsim/internal/env"
	"github.com/relabs-tech/envsim/internal/sensors"
	"github.com/relabs-tech/envsim/internal/sink"
)

// RunProducer validates cfg, opens the configured sink, and runs the
// emission loop from the seed state until it completes, ctx is cancelled,
// or the sink fails. stdout backs the stdout sink.
//
// A sink that cannot be opened is reported as OutcomeInvalid: the loop
// never entered Running, so no record was attempted.
func RunProducer(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *log.Logger) (emitter.Outcome, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return emitter.OutcomeInvalid, err
	}
	enc, err := cfg.Encoder()
	if err != nil {
		return emitter.OutcomeInvalid, err
	}

	out, closeSink, err := openSink(cfg, stdout, logger)
	if err != nil {
		return emitter.OutcomeInvalid, err
	}
	defer func() {
		if err := closeSink(); err != nil {
			logger.Printf("envsim: closing %s sink: %v", cfg.Sink, err)
		}
	}()

	src, closeSource := openSource(cfg, logger)
	defer func() {
		if err := closeSource(); err != nil {
			logger.Printf("envsim: closing %s source: %v", cfg.Source, err)
		}
	}()

	loop := emitter.New(src, out, emitter.Options{
		Interval: cfg.Interval,
		MaxTicks: cfg.MaxTicks,
		Encoder:  enc,
		Logger:   logger,
	})

	logger.Printf("envsim: emitting %s records to %s", cfg.Format, cfg.Sink)
	outcome, err := loop.Run(ctx)
	logger.Printf("envsim: %s after %d records", outcome, loop.Emitted())
	return outcome, err
}

func noClose() error { return nil }

// openSource returns the reading source for cfg.Source. The periph source
// reads the same seed generator through a simulated physic.SenseEnv, so
// both produce identical streams.
func openSource(cfg *config.Config, logger *log.Logger) (env.Source, func() error) {
	gen := env.NewGenerator(env.Seed())
	if cfg.Source != config.SourcePeriph {
		return gen, noClose
	}
	dev := sensors.NewSimEnv("sim-bme280", gen)
	logger.Printf("envsim: reading from periph device %s", dev)
	return sensors.NewEnvSource(dev), dev.Halt
}

// openSink returns the sink for cfg.Sink and a function releasing it.
func openSink(cfg *config.Config, stdout io.Writer, logger *log.Logger) (sink.RecordSink, func() error, error) {
	switch cfg.Sink {
	case config.SinkStdout:
		return sink.NewLine(stdout, false), noClose, nil

	case config.SinkFile:
		s := sink.NewRotatingFile(cfg.FilePath, cfg.FileMaxSizeMB, cfg.FileMaxBackups)
		logger.Printf("envsim: writing to %s", cfg.FilePath)
		return s, s.Close, nil

	case config.SinkSerial:
		s, err := sink.OpenSerial(cfg.SerialPort, cfg.SerialBaudRate)
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("envsim: serial port opened on %s at %d baud", cfg.SerialPort, cfg.SerialBaudRate)
		return s, s.Close, nil

	case config.SinkMQTT:
		client, err := sink.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("envsim: connected to MQTT broker at %s, topic %s", cfg.MQTTBroker, cfg.MQTTTopic)
		closeFn := func() error {
			client.Disconnect(250)
			return nil
		}
		return sink.NewMQTT(client, cfg.MQTTTopic, cfg.MQTTQoS), closeFn, nil

	case config.SinkWebSocket:
		return openWebSocket(cfg, logger)

	default:
		return nil, nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}

func openWebSocket(cfg *config.Config, logger *log.Logger) (sink.RecordSink, func() error, error) {
	ln, err := net.Listen("tcp", cfg.WSListenAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("websocket sink: listen %s: %w", cfg.WSListenAddr, err)
	}

	ws := sink.NewWebSocket()
	mux := http.NewServeMux()
	mux.Handle(cfg.WSPath, ws)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("envsim: websocket server: %v", err)
		}
	}()
	logger.Printf("envsim: waiting for websocket consumer on ws://%s%s", ln.Addr(), cfg.WSPath)

	closeFn := func() error {
		wsErr := ws.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Join(wsErr, srv.Shutdown(ctx))
	}
	return ws, closeFn, nil
}
