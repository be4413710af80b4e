package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("production", &buf)
	l.DatabaseError("save proposal", errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "database_error", line["msg"])
	assert.Equal(t, "save proposal", line["operation"])
	assert.Equal(t, "boom", line["error"])
}

func TestWithContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("production", &buf)
	ctx := context.WithValue(context.Background(), UserIDKey, "42")
	l.WithContext(ctx).RateLimitExceeded("10.0.0.1", "/api/login")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "42", line["user_id"])
	assert.Equal(t, "/api/login", line["path"])
}

func TestCalculationSuccessIsDebugOnly(t *testing.T) {
	var buf bytes.Buffer
	NewWriter("production", &buf).Calculation("sizing", "", 1.5)
	assert.Empty(t, buf.String())

	NewWriter("production", &buf).Calculation("sizing", "no_qualifying_equipment", 1.5)
	assert.Contains(t, buf.String(), "no_qualifying_equipment")
}
