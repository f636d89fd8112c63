package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := Setup(Options{Level: "warn", Format: "json", Out: &buf})

	logger.Info().Msg("dropped")
	relayLogger := Component(logger, "relay")
	relayLogger.Warn().Str("action", "balance").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "relay", entry["component"])
	assert.Equal(t, "balance", entry["action"])
	assert.Equal(t, "warn", entry["level"])
}

func TestSetupUnknownLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	Setup(Options{Level: "loud", Format: "json", Out: &buf})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
