package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.WithPrefix("router").Info("matched", "cmd", "leaderboard")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "matched", line["msg"])
	require.Equal(t, "leaderboard", line["cmd"])
	require.Equal(t, "router", line["prefix"])
}

func TestInvalidOptions(t *testing.T) {
	var buf bytes.Buffer

	_, err := New(&buf, "loud", "text")
	require.Error(t, err)

	_, err = New(&buf, "debug", "xml")
	require.Error(t, err)
}
