package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/envsim/internal/emitter"
	"github.com/relabs-tech/envsim/internal/env"
	"github.com/relabs-tech/envsim/internal/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 0, cfg.MaxTicks)
	assert.Equal(t, SinkStdout, cfg.Sink)
	assert.Equal(t, byte(0x1D), cfg.Separator)
	assert.Equal(t, SourceGenerator, cfg.Source)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadKeyValue(t *testing.T) {
	path := writeFile(t, "envsim_config.txt", `
# emission
INTERVAL=0.25
MAX_TICKS = 10
FORMAT=xdr
SEPARATOR=0x1e
SOURCE=periph

SINK=mqtt
MQTT_BROKER=tcp://broker:1883
MQTT_TOPIC=lab/env
MQTT_QOS=1
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, 10, cfg.MaxTicks)
	assert.Equal(t, "xdr", cfg.Format)
	assert.Equal(t, byte(0x1E), cfg.Separator)
	assert.Equal(t, SourcePeriph, cfg.Source)
	assert.Equal(t, SinkMQTT, cfg.Sink)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, "lab/env", cfg.MQTTTopic)
	assert.Equal(t, byte(1), cfg.MQTTQoS)
	assert.Equal(t, "envsim", cfg.MQTTClientID, "unset keys keep defaults")
}

func TestLoadKeyValueErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing equals", "INTERVAL 1"},
		{"unknown key", "COLOR=blue"},
		{"bad interval", "INTERVAL=fast"},
		{"bad max ticks", "MAX_TICKS=many"},
		{"qos out of range", "MQTT_QOS=3"},
		{"separator too wide", "SEPARATOR=300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.txt", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "envsim.yaml", `
interval: 2
maxTicks: 0
format: json
source: periph
sink: ws
websocket:
  addr: "127.0.0.1:9000"
  path: /stream
serial:
  baudRate: 115200
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, SourcePeriph, cfg.Source)
	assert.Equal(t, SinkWebSocket, cfg.Sink)
	assert.Equal(t, "127.0.0.1:9000", cfg.WSListenAddr)
	assert.Equal(t, "/stream", cfg.WSPath)
	assert.Equal(t, 115200, cfg.SerialBaudRate)
	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
}

func TestLoadYAMLErrors(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yml", "interval: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "qos.yml", "mqtt:\n  qos: 5\n"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ENVSIM_INTERVAL":  "0.5",
		"ENVSIM_SINK":      "file",
		"ENVSIM_FILE_PATH": "/tmp/out.log",
		"UNRELATED":        "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, SinkFile, cfg.Sink)
	assert.Equal(t, "/tmp/out.log", cfg.FilePath)

	env["ENVSIM_MAX_TICKS"] = "lots"
	assert.ErrorContains(t, Default().ApplyEnv(lookup), "ENVSIM_MAX_TICKS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative max ticks", func(c *Config) { c.MaxTicks = -1 }, "max ticks"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval"},
		{"unknown format", func(c *Config) { c.Format = "csv" }, "format"},
		{"unknown sink", func(c *Config) { c.Sink = "printer" }, "sink"},
		{"file without path", func(c *Config) { c.Sink = SinkFile; c.FilePath = "" }, "FILE_PATH"},
		{"mqtt without broker", func(c *Config) { c.Sink = SinkMQTT; c.MQTTBroker = "" }, "MQTT_BROKER"},
		{"mqtt without topic", func(c *Config) { c.Sink = SinkMQTT; c.MQTTTopic = "" }, "MQTT_TOPIC"},
		{"serial without port", func(c *Config) { c.Sink = SinkSerial; c.SerialPort = "" }, "SERIAL_PORT"},
		{"serial zero baud", func(c *Config) { c.Sink = SinkSerial; c.SerialBaudRate = 0 }, "SERIAL_BAUD_RATE"},
		{"ws without addr", func(c *Config) { c.Sink = SinkWebSocket; c.WSListenAddr = "" }, "WS_LISTEN_ADDR"},
		{"newline separator", func(c *Config) { c.Separator = '\n' }, "separator"},
		{"carriage return separator", func(c *Config) { c.Separator = '\r' }, "separator"},
		{"dot separator", func(c *Config) { c.Separator = '.' }, "separator"},
		{"minus separator", func(c *Config) { c.Separator = '-' }, "separator"},
		{"digit separator", func(c *Config) { c.Separator = '3' }, "separator"},
		{"exponent separator", func(c *Config) { c.Separator = 'e' }, "separator"},
		{"printable separator", func(c *Config) { c.Separator = ',' }, "separator"},
		{"unknown source", func(c *Config) { c.Source = "adc" }, "source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var cfgErr *emitter.ConfigError
			require.ErrorAs(t, cfg.Validate(), &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidateSeparatorKeepsRecordIntact(t *testing.T) {
	for _, sep := range []byte{0x1D, 0x1E, 0x1F, '\t', 0x00, 0x7F} {
		cfg := Default()
		cfg.Separator = sep
		require.NoError(t, cfg.Validate(), "separator 0x%02x", sep)

		enc, err := cfg.Encoder()
		require.NoError(t, err)
		rec := enc.Encode(env.Reading{Temperature: -32.4, Pressure: 1e21, Humidity: 49.2})
		assert.NotContains(t, string(rec), "\n")

		got, err := enc.(record.Separated).Decode(rec)
		require.NoError(t, err, "separator 0x%02x", sep)
		assert.Equal(t, -32.4, got.Temperature)
	}
}

func TestSetSeparatorThenValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set("SEPARATOR", "0x0a"))

	var cfgErr *emitter.ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "separator", cfgErr.Field)
}

func TestEncoder(t *testing.T) {
	cfg := Default()
	cfg.Separator = '|'

	enc, err := cfg.Encoder()
	require.NoError(t, err)
	assert.Equal(t, record.Separated{Sep: '|'}, enc)

	cfg.Format = "xdr"
	enc, err = cfg.Encoder()
	require.NoError(t, err)
	assert.IsType(t, record.XDR{}, enc)
}
