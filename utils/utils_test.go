package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, 200, map[string]string{"name": "Ventilator"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]interface{}{"name": "Ventilator"}, resp.Data)
}

func TestRespondWithErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, 404, "asset not found")

	assert.Equal(t, 404, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "asset not found", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pm-2026")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pm-2026", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
