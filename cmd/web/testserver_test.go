package main

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/agrolens/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// testLookupEnv serves the minimal environment for the test server plus
// per-test overrides such as stub backend URLs.
func testLookupEnv(overrides map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if val, ok := overrides[key]; ok {
			return val, true
		}
		switch key {
		case "AGROLENS_ADDR":
			return "localhost:0", true
		case "AGROLENS_UI_DIR":
			return "../../ui", true
		default:
			return "", false
		}
	}
}

// startTestServer starts the application on a dynamically allocated port and
// waits for it to become healthy.
func startTestServer(t *testing.T, overrides map[string]string) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(context.Background(), io.Discard, testLookupEnv(overrides), run)
	require.NoError(t, err)
	return server
}
