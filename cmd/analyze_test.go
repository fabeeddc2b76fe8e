package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-analyzer/internal/gateway"
)

// newTestCommand returns a command carrying the analyze flags with the given values set.
func newTestCommand(t *testing.T, flags map[string]string) *cobra.Command {
	cmd := &cobra.Command{Use: "analyze"}
	addAnalyzeFlags(cmd)
	cmd.Flags().String("config", "", "")
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

// setupEnv points the configuration at the mock server and isolates it from the host.
func setupEnv(t *testing.T, serverURL string) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_API_ENDPOINT", serverURL)
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", serverURL+"/graphql")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("REPO_ANALYZER_DEFAULT_BRANCH", "")
	t.Setenv("REPO_ANALYZER_TIMEOUT", "")
}

func TestRunAnalyze(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		switch r.URL.Path {
		case "/repos/octo/hello/commits":
			assert.Equal(t, "master", r.URL.Query().Get("sha"))
			fmt.Fprint(w, `[{"author":{"login":"alice"}},{"author":null,"commit":{"author":{"name":"alice"}}},{"author":{"login":"bob"}}]`)
		case "/repos/octo/hello/pulls":
			fmt.Fprint(w, `[{"state":"closed","created_at":"2018-01-01T00:00:00Z"}]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()
	setupEnv(t, server.URL)

	cmd := newTestCommand(t, map[string]string{"output": "json", "from": "not-a-date"})
	var buf bytes.Buffer
	err := runAnalyze(cmd, "https://github.com/octo/hello", log.New(io.Discard), &buf)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, float64(3), report["total_commits"])
	assert.Equal(t, float64(2), report["contributor_count"])
	assert.Nil(t, report["issues"])
	assert.Equal(t, map[string]any{"opened": float64(0), "closed": float64(1), "stale": float64(0)}, report["pulls"])
	assert.NotEmpty(t, report["run_id"])
}

func TestRunAnalyze_FlagOverrides(t *testing.T) {
	twoDaysAgo := time.Now().UTC().Add(-50 * time.Hour).Format(time.RFC3339)
	tenDaysAgo := time.Now().UTC().Add(-10*24*time.Hour - time.Hour).Format(time.RFC3339)
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		switch r.URL.Path {
		case "/repos/octo/hello/commits":
			fmt.Fprint(w, `[{"author":{"login":"alice"}},{"author":{"login":"alice"}},{"author":{"login":"bob"}}]`)
		case "/repos/octo/hello/pulls":
			fmt.Fprintf(w, `[{"state":"open","created_at":%q}]`, twoDaysAgo)
		case "/repos/octo/hello/issues":
			fmt.Fprintf(w, `[{"state":"open","created_at":%q}]`, tenDaysAgo)
		}
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	testCases := []struct {
		name                string
		flags               map[string]string
		expectedRows        int
		expectedPullsStale  float64
		expectedIssuesStale float64
	}{
		{
			name:                "defaults keep recent items fresh",
			flags:               map[string]string{"output": "json"},
			expectedRows:        2,
			expectedPullsStale:  0,
			expectedIssuesStale: 0,
		},
		{
			name:                "flags tighten thresholds and truncate",
			flags:               map[string]string{"output": "json", "old-pulls-days": "1", "old-issues-days": "5", "contributors-max": "1"},
			expectedRows:        1,
			expectedPullsStale:  1,
			expectedIssuesStale: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setupEnv(t, server.URL)

			var buf bytes.Buffer
			err := runAnalyze(newTestCommand(t, tc.flags), "https://github.com/octo/hello", log.New(io.Discard), &buf)
			require.NoError(t, err)

			var report map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
			assert.Len(t, report["contributors"], tc.expectedRows)
			assert.Equal(t, float64(2), report["contributor_count"])
			assert.Equal(t, float64(3), report["total_commits"])
			assert.Equal(t, map[string]any{"opened": float64(1), "closed": float64(0), "stale": tc.expectedPullsStale}, report["pulls"])
			assert.Equal(t, map[string]any{"opened": float64(1), "closed": float64(0), "stale": tc.expectedIssuesStale}, report["issues"])
		})
	}
}

func TestRunAnalyze_Errors(t *testing.T) {
	t.Run("fetch failure is returned", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/octo/hello/issues" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
			if r.Method == http.MethodGet {
				fmt.Fprint(w, `[]`)
			}
		}
		server := httptest.NewServer(http.HandlerFunc(handler))
		defer server.Close()
		setupEnv(t, server.URL)

		var buf bytes.Buffer
		err := runAnalyze(newTestCommand(t, nil), "https://github.com/octo/hello", log.New(io.Discard), &buf)

		var fetchErr *gateway.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Empty(t, buf.String())
	})

	t.Run("invalid repository url", func(t *testing.T) {
		setupEnv(t, "http://127.0.0.1:1")
		err := runAnalyze(newTestCommand(t, nil), "not a url", log.New(io.Discard), io.Discard)
		assert.ErrorContains(t, err, "invalid repository reference")
	})

	t.Run("invalid output format", func(t *testing.T) {
		setupEnv(t, "http://127.0.0.1:1")
		err := runAnalyze(newTestCommand(t, map[string]string{"output": "xml"}), "https://github.com/octo/hello", log.New(io.Discard), io.Discard)
		assert.ErrorContains(t, err, "invalid configuration")
	})
}
