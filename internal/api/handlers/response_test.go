package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required,max=5"`
	Capacity int    `json:"capacity" validate:"gte=1"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"abc","capacity":2}`, ""},
		{"malformed", `{"name":`, "decode json"},
		{"unknown field", `{"name":"abc","capacity":2,"extra":true}`, "unknown field"},
		{"missing name", `{"capacity":2}`, "Name: required"},
		{"too long and zero capacity", `{"name":"abcdefg"}`, "Name: max=5; Capacity: gte=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sampleRequest
			err := DecodeJSON(r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "abc", dst.Name)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPathInt64(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42", "bad": "-1"})

	id, err := PathInt64(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathInt64(r, "bad")
	assert.Error(t, err)

	_, err = PathInt64(r, "missing")
	assert.Error(t, err)
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "занято")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "занято", body.Error)
}
