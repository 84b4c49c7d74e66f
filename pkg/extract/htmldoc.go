package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// extractHTML turns an exported document's HTML into plain text. The export
// is distilled with readability first, then the clean content is flattened
// block by block; if readability can't find an article the whole body text
// is used instead.
func extractHTML(data []byte, fileID string) (string, error) {
	docURL, _ := url.Parse("https://docs.google.com/document/d/" + fileID)

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(data), docURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		text, terr := flattenHTML(strings.NewReader(article.Content))
		if terr == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	// Short exports often have too little structure for readability.
	text, err := flattenHTML(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse exported document: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// flattenHTML collects the text of content-bearing tags, one line each.
func flattenHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	var blocks []string
	doc.Find("h1,h2,h3,h4,p,li,pre").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		// No recognizable blocks; fall back to raw body text.
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}
	return strings.Join(blocks, "\n"), nil
}
