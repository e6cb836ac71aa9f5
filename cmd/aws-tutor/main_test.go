package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestAskCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "S3 is object storage."}`))
	}))
	defer api.Close()

	t.Setenv("BACKEND_URL", api.URL)
	t.Setenv("LOG_LEVEL", "error")

	out := runCLI(t, "ask", "What", "is", "S3?")
	assert.Equal(t, "S3 is object storage.\n", out)
}

func TestAskCommand_BackendDown(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	url := api.URL
	api.Close()

	t.Setenv("BACKEND_URL", url)
	t.Setenv("LOG_LEVEL", "fatal")

	out := runCLI(t, "ask", "What is S3?")
	assert.Equal(t, "Sorry, something went wrong.\n", out)
}

func TestIngestCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	rootCmd.SetArgs([]string{"ingest", "docs.jsonl"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestCrawlCommand(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`<a href="/iam/">IAM</a>`))
		case "/iam/":
			_, _ = w.Write([]byte(`<title>What is IAM?</title><article><h1>IAM</h1><p>IAM manages access.</p></article>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()

	t.Setenv("LOG_LEVEL", "error")

	out := runCLI(t, "crawl", "--start", site.URL+"/", "--delay", "0s", "--max-pages", "5")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"title":"What is IAM?"`)
	assert.Contains(t, lines[0], `"url":"`+site.URL+`/iam/"`)
	assert.Contains(t, lines[0], `"content":"IAM\nIAM manages access."`)
}
