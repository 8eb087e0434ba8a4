// Package content loads the help corpus and normalizes records into
// indexable chunks.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Record is a single raw help-content entry as it appears in the corpus file.
type Record struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Body     string `json:"content"`
}

// Chunk is the unit stored in the embedding index. One record maps to one
// chunk; the metadata is kept per chunk so a multi-chunk scheme can drop in
// without changing the retrieval contract.
type Chunk struct {
	ID       string
	Title    string
	Category string
	Text     string
}

// MalformedRecordError reports a record missing one of its required fields.
type MalformedRecordError struct {
	Index int
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d: missing %s", e.Index, e.Field)
}

// LoadFile reads a JSON array of records from path.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}

	return records, nil
}

// Normalize converts records into chunks. Identifiers and titles are trimmed,
// categories are trimmed and lowercased, and the chunk text is the title and
// body separated by a blank line. Malformed records are skipped; the skipped
// count and the per-record errors are returned alongside the good chunks.
func Normalize(records []Record) ([]Chunk, []error) {
	chunks := make([]Chunk, 0, len(records))
	var malformed []error

	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		title := strings.TrimSpace(rec.Title)
		category := strings.ToLower(strings.TrimSpace(rec.Category))
		body := strings.TrimSpace(rec.Body)

		if field, ok := missingField(id, title, category, body); !ok {
			malformed = append(malformed, &MalformedRecordError{Index: i, Field: field})
			continue
		}

		chunks = append(chunks, Chunk{
			ID:       id,
			Title:    title,
			Category: category,
			Text:     title + "\n\n" + body,
		})
	}

	return chunks, malformed
}

func missingField(id, title, category, body string) (string, bool) {
	switch {
	case id == "":
		return "id", false
	case title == "":
		return "title", false
	case category == "":
		return "category", false
	case body == "":
		return "content", false
	}
	return "", true
}
