package form

import (
	"context"
	"embed"
	"html/template"
	"io"
	"sync"
)

// Title is the page heading.
const Title = "LLM-Powered AWS Tutor"

//go:embed templates/*.tmpl
var templatesFS embed.FS

var page = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// Asker resolves a question to display text. Implementations absorb their
// own failures; see fetcher.Fetcher.
type Asker interface {
	Ask(ctx context.Context, question string) string
}

// Form holds one UI session's draft question and the answer on display.
//
// Overlapping submissions are sequenced: a result is applied only if no
// later-started submission has been applied already, so a slow answer to an
// older question never replaces the answer to a newer one.
type Form struct {
	mu      sync.Mutex
	draft   string
	answer  string
	started uint64
	applied uint64
}

func New() *Form {
	return &Form{}
}

func (f *Form) SetDraft(text string) {
	f.mu.Lock()
	f.draft = text
	f.mu.Unlock()
}

func (f *Form) Draft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) Answer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answer
}

func (f *Form) HasAnswer() bool {
	return f.Answer() != ""
}

// Submit sends the current draft, untrimmed, to the asker and blocks until it
// settles. It returns the answer on display afterwards.
func (f *Form) Submit(ctx context.Context, asker Asker) string {
	f.mu.Lock()
	question := f.draft
	seq := f.next()
	f.mu.Unlock()

	return f.settle(seq, asker.Ask(ctx, question))
}

// SubmitText stores text as the draft and submits it in one step, so a
// concurrent edit cannot swap the question between the two.
func (f *Form) SubmitText(ctx context.Context, text string, asker Asker) string {
	f.mu.Lock()
	f.draft = text
	seq := f.next()
	f.mu.Unlock()

	return f.settle(seq, asker.Ask(ctx, text))
}

// next must be called with mu held.
func (f *Form) next() uint64 {
	f.started++
	return f.started
}

func (f *Form) settle(seq uint64, answer string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq > f.applied {
		f.applied = seq
		f.answer = answer
	}
	return f.answer
}

type view struct {
	Title  string
	Action string
	Draft  string
	Answer string
}

// Render writes the page. The answer panel is omitted while there is no
// answer to show.
func (f *Form) Render(w io.Writer) error {
	f.mu.Lock()
	v := view{
		Title:  Title,
		Action: "/",
		Draft:  f.draft,
		Answer: f.answer,
	}
	f.mu.Unlock()

	return page.ExecuteTemplate(w, "index.html.tmpl", v)
}
