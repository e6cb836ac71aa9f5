package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"aws-tutor/internal/models"
)

// scrapedItem mirrors one line written by the documentation scraper.
// Timestamps come without a zone and are read as UTC.
type scrapedItem struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Section   string `json:"section"`
	Source    string `json:"source,omitempty"`
	Timestamp string `json:"timestamp"`
}

// scrapedLayout is how the scraper writes timestamps: UTC, no zone.
const scrapedLayout = "2006-01-02T15:04:05.999999"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ReadDocuments decodes JSON Lines from r and sends each document on the
// returned channel. Blank lines are ignored; a malformed line stops reading
// and is reported on the error channel, which receives at most one value and
// is closed once reading ends.
func ReadDocuments(ctx context.Context, r io.Reader) (<-chan models.Document, <-chan error) {
	docs := make(chan models.Document)
	errc := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errc)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			var item scrapedItem
			if err := json.Unmarshal([]byte(text), &item); err != nil {
				errc <- fmt.Errorf("line %d: %w", line, err)
				return
			}

			doc := models.Document{
				Title:     strings.TrimSpace(item.Title),
				Content:   item.Content,
				URL:       strings.TrimSpace(item.URL),
				Section:   strings.TrimSpace(item.Section),
				Source:    item.Source,
				Timestamp: parseTimestamp(item.Timestamp),
			}

			select {
			case docs <- doc:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("read documents: %w", err)
		}
	}()

	return docs, errc
}
