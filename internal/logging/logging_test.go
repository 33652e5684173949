package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(DefaultConfig(), &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	logger.WithField("component", "convert").Info("wrote journal")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg="wrote journal"`)
	assert.Contains(t, buf.String(), "component=convert")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.WithField("line", 3).Debug("skipping row")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "skipping row", got["msg"])
	assert.Equal(t, "debug", got["level"])
	assert.EqualValues(t, 3, got["line"])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{Level: "warn"}.Validate())
	assert.Error(t, Config{Level: "loud", Format: "text"}.Validate())
	assert.Error(t, Config{Level: "info", Format: "xml"}.Validate())

	_, err := New(Config{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
