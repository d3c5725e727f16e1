package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertFailureBody checks that body is exactly {"success": false, "error": ...}
// and that the error text contains expected.
func AssertFailureBody(t *testing.T, body []byte, expected string) {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload), "body: %s", body)

	assert.Len(t, payload, 2, "failure body must carry only success and error: %s", body)
	assert.Equal(t, false, payload["success"])

	msg, ok := payload["error"].(string)
	require.True(t, ok, "error must be a string: %s", body)
	assert.Contains(t, msg, expected)
}
