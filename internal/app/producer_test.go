package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/envsim/internal/config"
	"github.com/relabs-tech/envsim/internal/emitter"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Interval = time.Millisecond
	cfg.MaxTicks = 3
	return cfg
}

func TestRunProducerStdout(t *testing.T) {
	var out bytes.Buffer

	outcome, err := RunProducer(context.Background(), testConfig(), &out, nil)

	require.NoError(t, err)
	assert.Equal(t, emitter.OutcomeCompleted, outcome)
	assert.Equal(t,
		"32.4\x1d998.3\x1d49.2\n30.0\x1d995.0\x1d45.0\n32.4\x1d998.3\x1d49.2\n",
		out.String())
}

func TestRunProducerJSONFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Format = "json"
	cfg.MaxTicks = 1
	var out bytes.Buffer

	_, err := RunProducer(context.Background(), cfg, &out, nil)

	require.NoError(t, err)
	assert.Equal(t, `{"type":"NOTIFICATION","content":["32.4","998.3","49.2"]}`+"\n", out.String())
}

func TestRunProducerFile(t *testing.T) {
	cfg := testConfig()
	cfg.Sink = config.SinkFile
	cfg.FilePath = filepath.Join(t.TempDir(), "envsim.log")
	cfg.MaxTicks = 4

	outcome, err := RunProducer(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, emitter.OutcomeCompleted, outcome)

	data, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"), 4)
}

func TestRunProducerInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = -1
	var out bytes.Buffer

	outcome, err := RunProducer(context.Background(), cfg, &out, nil)

	assert.Equal(t, emitter.OutcomeInvalid, outcome)
	var cfgErr *emitter.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, out.Len())
}

func TestRunProducerSerialOpenFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Sink = config.SinkSerial
	cfg.SerialPort = filepath.Join(t.TempDir(), "ttyNONE")

	outcome, err := RunProducer(context.Background(), cfg, nil, nil)

	assert.Equal(t, emitter.OutcomeInvalid, outcome)
	require.Error(t, err)
	var cfgErr *emitter.ConfigError
	assert.False(t, errors.As(err, &cfgErr), "open failures are not config errors")
}

func TestRunProducerPeriphSourceMatchesGenerator(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 6
	var want bytes.Buffer
	_, err := RunProducer(context.Background(), cfg, &want, nil)
	require.NoError(t, err)

	cfg.Source = config.SourcePeriph
	var got bytes.Buffer
	outcome, err := RunProducer(context.Background(), cfg, &got, nil)

	require.NoError(t, err)
	assert.Equal(t, emitter.OutcomeCompleted, outcome)
	assert.Equal(t, want.String(), got.String())
}

func TestRunProducerCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 0
	cfg.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	outcome, err := RunProducer(ctx, cfg, &out, nil)

	require.NoError(t, err)
	assert.Equal(t, emitter.OutcomeCancelled, outcome)
	assert.NotZero(t, out.Len())
}
