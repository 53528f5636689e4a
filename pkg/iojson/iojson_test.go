package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	out := MarshalError("unknown work item: ghost", map[string]any{"id": "ghost"})

	var decoded Error
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "unknown work item: ghost", decoded.Message)
	assert.Equal(t, "ghost", decoded.Data["id"])
}

func TestMarshalError_UnmarshalableData(t *testing.T) {
	out := MarshalError("boom", map[string]any{"fn": func() {}})

	// Falls back to the manual blob; still valid JSON.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "boom", decoded["message"])
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "illegal transition", map[string]any{"id": "wi-1"}))

	var decoded Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "illegal transition", decoded.Message)
	assert.Equal(t, "wi-1", decoded.Data["id"])
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, map[string]string{"id": "wi-1"}))
	assert.Equal(t, `{"id":"wi-1"}`+"\n", buf.String())
}
