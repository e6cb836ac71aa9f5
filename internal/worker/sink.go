package worker

import (
	"encoding/json"
	"io"
	"sync"

	"aws-tutor/internal/models"
)

// JSONLWriter writes documents in the scraper's JSON Lines format, one
// object per line, readable by ReadDocuments.
type JSONLWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{enc: enc}
}

func (j *JSONLWriter) Write(d models.Document) error {
	item := scrapedItem{
		Title:   d.Title,
		Content: d.Content,
		URL:     d.URL,
		Section: d.Section,
		Source:  d.Source,
	}
	if !d.Timestamp.IsZero() {
		item.Timestamp = d.Timestamp.UTC().Format(scrapedLayout)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(item)
}
