package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"aws-tutor/internal/models"
)

var site = map[string]string{
	"/robots.txt": "User-agent: *\nDisallow: /private/\n",
	"/": `<html><head><title>AWS Documentation</title></head><body>
		<a href="/s3/">S3</a>
		<a href="/private/secret.html">hidden</a>
		<a href="https://example.com/elsewhere">off site</a>
		<a href="/s3/#buckets">S3 buckets</a>
		<a href="mailto:docs@example.com">mail</a>
		<a href="lambda/">Lambda</a>
	</body></html>`,
	"/s3/": `<html><head><title> What is S3? </title></head><body>
		<nav><a href="/lambda/">Lambda</a><a href="/s3/">self</a></nav>
		<div class="content main-content">
			<h1>Amazon   S3</h1>
			<p>S3 stores objects.</p>
			<script>var tracking = 1;</script>
		</div>
	</body></html>`,
	"/lambda/": `<html><head><title>What is Lambda?</title></head><body>
		<article><h2>AWS Lambda</h2><p>Lambda runs code.</p></article>
		<a href="/nocontent/">x</a><a href="/broken/">y</a>
	</body></html>`,
	"/nocontent/": `<html><head><title>Index</title></head><body><p>Nothing here.</p></body></html>`,
}

type docSite struct {
	mu   sync.Mutex
	hits []string
}

func (s *docSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits = append(s.hits, r.URL.Path)
	s.mu.Unlock()

	body, ok := site[r.URL.Path]
	if !ok {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	if r.URL.Path == "/robots.txt" {
		w.Header().Set("Content-Type", "text/plain")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, _ = w.Write([]byte(body))
}

func newTestCrawler(t *testing.T, baseURL string, maxPages int) *Crawler {
	t.Helper()
	c, err := New(Options{StartURL: baseURL + "/", MaxPages: maxPages}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCrawl(t *testing.T) {
	s := &docSite{}
	server := httptest.NewServer(s)
	defer server.Close()

	c := newTestCrawler(t, server.URL, 0)

	var docs []models.Document
	stats, err := c.Crawl(context.Background(), func(d models.Document) error {
		docs = append(docs, d)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, Stats{Fetched: 5, Emitted: 2, Failed: 1}, stats)
	require.Len(t, docs, 2)

	assert.Equal(t, models.Document{
		Title:     "What is S3?",
		Content:   "Amazon   S3\nS3 stores objects.",
		URL:       server.URL + "/s3/",
		Section:   "Amazon S3",
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}, docs[0])

	assert.Equal(t, server.URL+"/lambda/", docs[1].URL)
	assert.Equal(t, "AWS Lambda", docs[1].Section)
	assert.Equal(t, "AWS Lambda\nLambda runs code.", docs[1].Content)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, []string{"/robots.txt", "/", "/s3/", "/lambda/", "/nocontent/", "/broken/"}, s.hits)
}

func TestCrawl_MaxPages(t *testing.T) {
	server := httptest.NewServer(&docSite{})
	defer server.Close()

	c := newTestCrawler(t, server.URL, 2)

	var urls []string
	stats, err := c.Crawl(context.Background(), func(d models.Document) error {
		urls = append(urls, d.URL)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Fetched: 2, Emitted: 1}, stats)
	assert.Equal(t, []string{server.URL + "/s3/"}, urls)
}

func TestCrawl_EmitErrorStops(t *testing.T) {
	server := httptest.NewServer(&docSite{})
	defer server.Close()

	c := newTestCrawler(t, server.URL, 0)
	sinkErr := errors.New("disk full")

	stats, err := c.Crawl(context.Background(), func(models.Document) error { return sinkErr })
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 0, stats.Emitted)
}

func TestCrawl_Cancelled(t *testing.T) {
	server := httptest.NewServer(&docSite{})
	defer server.Close()

	c := newTestCrawler(t, server.URL, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Crawl(ctx, func(models.Document) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidStartURL(t *testing.T) {
	for _, raw := range []string{"", "docs.aws.amazon.com", "ftp://docs.aws.amazon.com/"} {
		_, err := New(Options{StartURL: raw}, zap.NewNop())
		assert.Error(t, err, raw)
	}
}

func TestExtractDocument_NoMainContent(t *testing.T) {
	root, err := html.Parse(strings.NewReader(site["/nocontent/"]))
	require.NoError(t, err)

	_, ok := extractDocument(root, "https://docs.aws.amazon.com/nocontent/")
	assert.False(t, ok)
}

func TestParseRobots(t *testing.T) {
	rules := parseRobots(strings.NewReader(`User-agent: Googlebot
Disallow: /nogoogle/

User-agent: *
Disallow: /private/
Disallow:
# maintenance
User-agent: other
User-agent: *
Disallow: /tmp/ # scratch
`))

	assert.Equal(t, []string{"/private/", "/tmp/"}, rules.disallow)
	assert.True(t, rules.allowed("/nogoogle/page.html"))
	assert.False(t, rules.allowed("/private/secret.html"))
	assert.False(t, rules.allowed("/tmp/x"))
	assert.True(t, robotsRules{}.allowed("/anything"))
}
