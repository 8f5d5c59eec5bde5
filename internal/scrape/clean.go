package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern   = regexp.MustCompile(`<[^>]*?>`)
	spacePattern = regexp.MustCompile(`[ \t\f\v\r]+`)
	linesPattern = regexp.MustCompile(`\n\s*\n+`)
)

// block elements that get a line break after their text
var blockTags = "p, div, li, h1, h2, h3, h4, h5, h6, tr, br, section, article, header, footer, ul, ol, table"

// CleanText turns a scraped HTML page (or already plain text) into compact text
// suitable for a prompt: markup, scripts and URLs are dropped and whitespace is
// collapsed. It never fails; unparseable markup is stripped with a regexp.
func CleanText(raw string) string {
	text := raw
	if looksLikeHTML(raw) {
		text = htmlToText(raw)
	}
	text = tagPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = strings.Join(lines, "\n")
	text = linesPattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func htmlToText(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script, style, noscript, template, svg, iframe, head").Remove()
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return doc.Text()
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(s)
	if len(head) > 2048 {
		head = head[:2048]
	}
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<div") ||
		strings.Contains(head, "<p") ||
		strings.Contains(head, "<!doctype")
}
