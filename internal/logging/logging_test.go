package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", "json")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("proxy", "http://1.1.1.1:80").Debug("probe finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "probe finished", entry["msg"])
	require.Equal(t, "http://1.1.1.1:80", entry["proxy"])
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", "text")
	require.Error(t, err)
	_, err = New("info", "xml")
	require.Error(t, err)
}

func TestVerbosity(t *testing.T) {
	require.Equal(t, "info", Verbosity(0))
	require.Equal(t, "debug", Verbosity(1))
	require.Equal(t, "trace", Verbosity(3))
}
