package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// textBlocks are the tags whose text is counted when walking article HTML.
const textBlocks = "h1,h2,h3,h4,h5,h6,p,li,blockquote,pre,td,th,dd,dt"

type Parser struct{}

// PlainText extracts readable text from an HTML document.
// go-readability finds the main article first; when it fails or the article
// is empty, the whole body is used instead.
func (p *Parser) PlainText(rawURL, html string) (title string, text string, err error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, readErr := readabilityParser.Parse(strings.NewReader(html), pageURL)
	if readErr == nil && strings.TrimSpace(article.Content) != "" {
		text, err = blocksText(article.Content)
		if err == nil && text != "" {
			return normalizeText(article.Title), text, nil
		}
	}

	return bodyText(html)
}

// blocksText walks the content-bearing tags of an HTML fragment, one line per block.
// Nested blocks (a p inside an li) are skipped so text is not counted twice.
func blocksText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	doc.Find(textBlocks).Each(func(i int, s *goquery.Selection) {
		if s.ParentsFiltered(textBlocks).Length() > 0 {
			return
		}
		line := normalizeText(s.Text())
		if line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	})

	return strings.TrimSpace(sb.String()), nil
}

// bodyText returns the title and visible body text of a full HTML document.
func bodyText(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script,style,noscript,template").Remove()
	title := normalizeText(doc.Find("title").First().Text())

	return title, normalizeText(doc.Find("body").Text()), nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
