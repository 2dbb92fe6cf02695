package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one scraped marketing page. Pages are immutable once loaded.
type Page struct {
	URL             string   `json:"url"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	KeyPoints       []string `json:"keyPoints"`
	MetaDescription string   `json:"metaDescription"`
	ScrapedAt       string   `json:"scrapedAt,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Topic is one entry in the topics listing.
type Topic struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// KnowledgeBase is the in-memory knowledge document. Slugs holds the order
// the pages appear in the source document; search uses it to break score
// ties deterministically.
type KnowledgeBase struct {
	Pages       map[string]Page
	Slugs       []string
	LastUpdated string
}

// NewKnowledgeBase returns an empty base every operation can run against.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{Pages: map[string]Page{}}
}

// Add appends a page under its slug, keeping document order.
func (kb *KnowledgeBase) Add(page Page) {
	if _, ok := kb.Pages[page.Slug]; !ok {
		kb.Slugs = append(kb.Slugs, page.Slug)
	}
	kb.Pages[page.Slug] = page
}

// UnmarshalJSON decodes the scraper document. encoding/json maps do not keep
// object key order, so the pages object is walked token by token.
func (kb *KnowledgeBase) UnmarshalJSON(data []byte) error {
	var doc struct {
		Pages       json.RawMessage `json:"pages"`
		LastUpdated string          `json:"lastUpdated"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	kb.Pages = map[string]Page{}
	kb.Slugs = nil
	kb.LastUpdated = doc.LastUpdated
	if len(doc.Pages) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(doc.Pages))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("pages: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		slug, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("pages: unexpected key %v", keyTok)
		}
		var page Page
		if err := dec.Decode(&page); err != nil {
			return fmt.Errorf("page %q: %w", slug, err)
		}
		if page.Slug == "" {
			page.Slug = slug
		}
		if _, dup := kb.Pages[slug]; !dup {
			kb.Slugs = append(kb.Slugs, slug)
		}
		kb.Pages[slug] = page
	}
	return nil
}

// MarshalJSON writes pages in document order so the file round-trips.
func (kb KnowledgeBase) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"pages":{`)
	for i, slug := range kb.Slugs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(slug)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		page, err := json.Marshal(kb.Pages[slug])
		if err != nil {
			return nil, err
		}
		buf.Write(page)
	}
	buf.WriteString(`},"lastUpdated":`)
	last, err := json.Marshal(kb.LastUpdated)
	if err != nil {
		return nil, err
	}
	buf.Write(last)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
