package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("debug", "json", &buf)
	defer Initialize("info", "text")

	Info("cycle listed", "cycle_id", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cycle listed", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, float64(1), line["cycle_id"])
}

func TestInitializeWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("warn", "text", &buf)
	defer Initialize("info", "text")

	Debug("hidden")
	Info("hidden")
	assert.Empty(t, buf.String())

	DatabaseResult("insert", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "Database call failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestEnterExitMethod(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("debug", "text", &buf)
	defer Initialize("info", "text")

	EnterMethod("rentalService.RentCycle", "cycleID", 3)
	ExitMethod("rentalService.RentCycle", "rentalID", 1)
	out := buf.String()
	assert.Contains(t, out, "method=rentalService.RentCycle")
	assert.Contains(t, out, "event=enter")
	assert.Contains(t, out, "event=exit")
}
