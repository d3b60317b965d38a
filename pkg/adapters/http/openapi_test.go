package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Lectern API", doc.Info.Title)

	for _, path := range []string{
		"/state", "/view", "/next", "/prev", "/goto/{index}", "/reveal/{index}",
		"/continue", "/back", "/vars/{key}", "/events",
	} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}
	put := doc.Paths.Value("/vars/{key}").Put
	require.NotNil(t, put)
	require.NotNil(t, put.RequestBody)
	assert.True(t, put.RequestBody.Value.Required)
}

func TestServer_SpecAndSwagger(t *testing.T) {
	f := newFixture(t, stepLesson())

	rr := f.do(t, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, rr.Body.String(), "/vars/{key}:")

	rr = f.do(t, http.MethodGet, "/swagger", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "SwaggerUIBundle")
	assert.Contains(t, rr.Body.String(), "url: '/openapi.yaml'")

	rr = f.do(t, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "0.1.0", info["api_version"])
}

func TestServer_RequestValidation(t *testing.T) {
	f := newFixture(t, stepLesson())

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"json string", http.MethodPut, "/vars/quiz", "application/json", `"3/4"`, http.StatusOK},
		{"json number", http.MethodPut, "/vars/quiz", "application/json", `42`, http.StatusOK},
		{"missing body", http.MethodPut, "/vars/quiz", "application/json", "", http.StatusBadRequest},
		{"malformed json", http.MethodPut, "/vars/quiz", "application/json", `{"a":`, http.StatusBadRequest},
		{"wrong content type", http.MethodPut, "/vars/quiz", "text/plain", `true`, http.StatusBadRequest},
		{"non integer dot", http.MethodPost, "/dots/two", "", "", http.StatusBadRequest},
		{"non integer reveal", http.MethodPost, "/reveal/1.5", "", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			f.h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
	assert.Equal(t, json.Number("42"), f.store.Read("quiz", nil))
}

func TestServer_BodyLimit(t *testing.T) {
	f := newFixture(t, stepLesson())

	big := `"` + strings.Repeat("a", MaxBodyBytes) + `"`
	rr := f.do(t, http.MethodPut, "/vars/essay", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "", f.store.Read("essay", ""))

	rr = f.do(t, http.MethodPut, "/vars/essay", `"short"`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "short", f.store.Read("essay", ""))
}
