package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Section is one bracketed block of a document.
type Section struct {
	Name   string   `json:"name"`
	Lines  []string `json:"lines,omitempty"`
	Tables []*Table `json:"tables,omitempty"`
}

// Document is an ordered set of sections with run metadata.
type Document struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"snapshot"`
	Generated time.Time `json:"generated"`
	Sections  []Section `json:"sections"`
}

// NewDocument starts a document for the given snapshot name.
func NewDocument(source string) *Document {
	return &Document{
		RunID:     uuid.NewString(),
		Source:    source,
		Generated: time.Now().UTC(),
	}
}

// Add appends sections in order.
func (d *Document) Add(sections ...Section) {
	d.Sections = append(d.Sections, sections...)
}

// AddTables appends a section holding only tables.
func (d *Document) AddTables(name string, tables ...*Table) {
	d.Sections = append(d.Sections, Section{Name: name, Tables: tables})
}

// Markdown renders the document with bracketed section headers.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString("[PRICE REPORT]\n")
	if d.Source != "" {
		b.WriteString(fmt.Sprintf("Snapshot: %s\n", d.Source))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", d.RunID))
	if !d.Generated.IsZero() {
		b.WriteString(fmt.Sprintf("Generated: %s\n", d.Generated.Format(time.RFC3339)))
	}
	for _, s := range d.Sections {
		b.WriteString("\n[")
		b.WriteString(strings.ToUpper(s.Name))
		b.WriteString("]\n")
		for _, l := range s.Lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
		for i, t := range s.Tables {
			if i > 0 || len(s.Lines) > 0 {
				b.WriteString("\n")
			}
			b.WriteString(t.Markdown())
		}
	}
	return b.String()
}
