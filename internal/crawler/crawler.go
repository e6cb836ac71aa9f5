// Package crawler walks the AWS documentation site and turns its pages into
// documents for ingestion.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"resty.dev/v3"

	"aws-tutor/internal/models"
)

const (
	DefaultStartURL  = "https://docs.aws.amazon.com/"
	defaultMaxPages  = 100
	defaultUserAgent = "aws-tutor-crawler/1.0"
)

type Options struct {
	StartURL  string
	MaxPages  int
	Delay     time.Duration // between page fetches
	UserAgent string
}

// Stats summarises one crawl.
type Stats struct {
	Fetched int
	Emitted int
	Failed  int
}

type Crawler struct {
	client *resty.Client
	opts   Options
	start  *url.URL
	logger *zap.Logger
	now    func() time.Time
}

var errNotHTML = errors.New("not an HTML page")

func New(opts Options, logger *zap.Logger) (*Crawler, error) {
	start, err := url.Parse(opts.StartURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, fmt.Errorf("invalid start URL %q", opts.StartURL)
	}
	start.Fragment = ""
	if opts.MaxPages < 1 {
		opts.MaxPages = defaultMaxPages
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)

	return &Crawler{
		client: client,
		opts:   opts,
		start:  start,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (c *Crawler) Close() error {
	return c.client.Close()
}

// Crawl visits pages breadth-first from the start URL without leaving its
// host, honouring robots.txt. The start page only seeds links; every other
// page with documentation content is passed to emit. Crawl stops after
// MaxPages fetches, when ctx is done, or when emit fails.
func (c *Crawler) Crawl(ctx context.Context, emit func(models.Document) error) (Stats, error) {
	var stats Stats
	rules := c.robots(ctx)

	startURL := c.start.String()
	queue := []string{startURL}
	seen := map[string]bool{startURL: true}

	for len(queue) > 0 && stats.Fetched < c.opts.MaxPages {
		if stats.Fetched > 0 {
			if err := wait(ctx, c.opts.Delay); err != nil {
				return stats, err
			}
		} else if err := ctx.Err(); err != nil {
			return stats, err
		}

		pageURL := queue[0]
		queue = queue[1:]

		root, err := c.fetch(ctx, pageURL)
		stats.Fetched++
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			c.logger.Warn("failed to fetch page", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		base, _ := url.Parse(pageURL)
		for _, href := range links(root) {
			link, ok := c.follow(base, href, rules)
			if ok && !seen[link] {
				seen[link] = true
				queue = append(queue, link)
			}
		}

		if pageURL == startURL {
			continue
		}
		doc, ok := extractDocument(root, pageURL)
		if !ok {
			c.logger.Debug("no documentation content", zap.String("url", pageURL))
			continue
		}
		doc.Timestamp = c.now().UTC()
		if err := emit(doc); err != nil {
			return stats, err
		}
		stats.Emitted++
		c.logger.Debug("crawled page", zap.String("url", pageURL), zap.String("title", doc.Title))
	}

	return stats, nil
}

func (c *Crawler) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	response, err := c.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", response.StatusCode())
	}
	if ct := response.Header().Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return nil, fmt.Errorf("%s: %w", ct, errNotHTML)
	}
	return html.Parse(strings.NewReader(response.String()))
}

// follow resolves href against the page it appeared on and reports whether
// the crawl should visit it.
func (c *Crawler) follow(base *url.URL, href string, rules robotsRules) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	if u.Scheme != c.start.Scheme || u.Host != c.start.Host {
		return "", false
	}
	if u.Path == "" || u.Path == "/" {
		return "", false
	}
	if !rules.allowed(u.Path) {
		return "", false
	}
	return u.String(), true
}

func (c *Crawler) robots(ctx context.Context) robotsRules {
	robotsURL := url.URL{Scheme: c.start.Scheme, Host: c.start.Host, Path: "/robots.txt"}
	response, err := c.client.R().
		SetContext(ctx).
		Get(robotsURL.String())
	if err != nil || response.StatusCode() != http.StatusOK {
		return robotsRules{}
	}
	return parseRobots(strings.NewReader(response.String()))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
