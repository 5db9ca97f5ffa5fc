package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pc-autobuild-be/pkg/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req extractRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pc gaming 20 triệu", req.Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entities":[{"value":"gaming","label":"PURPOSE"},{"value":"20 triệu","label":"BUDGET"}]}`))
	}))
	defer srv.Close()

	entities, err := NewClient(srv.URL, time.Second, 2).Extract(context.Background(), "pc gaming 20 triệu")
	require.NoError(t, err)
	assert.Equal(t, []intent.Entity{
		{Value: "gaming", Label: "PURPOSE"},
		{Value: "20 triệu", Label: "BUDGET"},
	}, entities)
}

func TestExtractRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"entities":[]}`))
	}))
	defer srv.Close()

	entities, err := NewClient(srv.URL, time.Second, 3).Extract(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, int32(3), calls.Load())
}

func TestExtractGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, 1).Extract(context.Background(), "x")
	assert.ErrorContains(t, err, "status 502")
	assert.Equal(t, int32(2), calls.Load())
}

func TestExtractDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad text", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, 3).Extract(context.Background(), "x")
	assert.ErrorContains(t, err, "status 400")
	assert.Equal(t, int32(1), calls.Load())
}
