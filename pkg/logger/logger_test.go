package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-scanner/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "scanner", Out: &buf})

	sub := l.Component("ledger")
	sub.Info().Str("barcode", "ABC").Msg("escaneo")
	sub.Debug().Msg("no debe salir")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "scanner", line["service"])
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "ABC", line["barcode"])
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verboso", Out: &buf})

	l.Debug().Msg("no debe salir")
	l.Info().Msg("sale")

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), "sale")
}

func TestNew_NivelesDeZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "WARN", Out: &buf})
	l.Info().Msg("info")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("warn")
	assert.Contains(t, buf.String(), "warn")

	buf.Reset()
	l = logger.New(logger.Config{Env: "production", Level: "disabled", Out: &buf})
	l.Error().Msg("nada")
	assert.Zero(t, buf.Len())
}
