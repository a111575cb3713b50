package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/config"
	"github.com/aria-lang/protmatch-go/internal/logging"
)

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(newRouter(config.Default(), alignment.BLOSUM62(), logging.Discard()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/alignment/score", "application/json",
		strings.NewReader(`{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "protmatch_alignments_total")
}

func TestRouterAppliesConfigLimits(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxSequenceLength = 5
	srv := httptest.NewServer(newRouter(cfg, alignment.BLOSUM62(), logging.Discard()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/alignment/local", "application/json",
		strings.NewReader(`{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHE"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sequence1: sequence too long")
}
