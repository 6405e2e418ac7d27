package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTitle is used when a chapter page carries no usable title.
const DefaultTitle = "Chapter"

// titleSelectors are tried in order; the first non-empty text wins.
var titleSelectors = []string{"h3.nav-title", "h1", "title"}

// Document is a parsed chapter page: its markup plus the text of every script element.
type Document struct {
	Markup  string
	Scripts []string

	dom *goquery.Document
}

// ParseDocument parses HTML and collects the inline script bodies in document order.
func ParseDocument(markup []byte) (*Document, error) {
	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc := &Document{Markup: string(markup), dom: dom}
	dom.Find("script").Each(func(i int, s *goquery.Selection) {
		if text := s.Text(); strings.TrimSpace(text) != "" {
			doc.Scripts = append(doc.Scripts, text)
		}
	})
	return doc, nil
}

// Title returns the chapter title from the first matching heading.
func (d *Document) Title() string {
	if d == nil || d.dom == nil {
		return DefaultTitle
	}
	for _, sel := range titleSelectors {
		text := collapseSpace(d.dom.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return DefaultTitle
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
