// Package scrape extracts product facts from a public page. The result is a
// plain-text digest appended to the URL analysis prompt, so extraction is
// lossy on purpose: title, description, social-card tags, headings and a
// bounded slice of visible text.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"adgen/internal/logging"
)

const (
	fetchTimeout = 15 * time.Second
	maxBodyText  = 1500
	maxHeadings  = 8
	userAgent    = "Mozilla/5.0 (compatible; adgen/1.0)"
)

// Facts is the distilled content of one page.
type Facts struct {
	Title       string
	Description string
	OpenGraph   map[string]string
	Headings    []string
	BodyText    string
}

// String renders the facts as the prompt fragment.
func (f *Facts) String() string {
	var b strings.Builder
	if f.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", f.Title)
	}
	if f.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", f.Description)
	}
	for _, key := range []string{"og:title", "og:description", "og:type", "og:site_name"} {
		if v, ok := f.OpenGraph[key]; ok && v != "" {
			fmt.Fprintf(&b, "%s: %s\n", key, v)
		}
	}
	if len(f.Headings) > 0 {
		fmt.Fprintf(&b, "Headings: %s\n", strings.Join(f.Headings, " | "))
	}
	if f.BodyText != "" {
		fmt.Fprintf(&b, "Page text: %s\n", f.BodyText)
	}
	return strings.TrimSpace(b.String())
}

// PageFacts fetches url and extracts its facts. Static HTML only; pages that
// render client-side come back thin, which the caller treats as acceptable.
func PageFacts(ctx context.Context, url string) (*Facts, error) {
	timer := logging.StartTimer("scrape", "PageFacts")

	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		timer.Stop()
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		timer.Stop()
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		timer.Stop()
		return nil, fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		timer.Stop()
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	facts := extract(doc)
	logging.Scrape("extracted %d headings, %d chars of text from %s",
		len(facts.Headings), len(facts.BodyText), url)
	timer.Stop()
	return facts, nil
}

func extract(doc *goquery.Document) *Facts {
	facts := &Facts{
		Title:     clean(doc.Find("title").First().Text()),
		OpenGraph: map[string]string{},
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		if name, _ := s.Attr("name"); name == "description" {
			facts.Description = content
		}
		if prop, _ := s.Attr("property"); strings.HasPrefix(prop, "og:") {
			facts.OpenGraph[prop] = content
		}
	})

	doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if h := clean(s.Text()); h != "" {
			facts.Headings = append(facts.Headings, h)
		}
		return len(facts.Headings) < maxHeadings
	})

	doc.Find("script, style, noscript, nav, footer").Remove()
	text := clean(doc.Find("body").Text())
	if len(text) > maxBodyText {
		text = text[:maxBodyText]
	}
	facts.BodyText = text

	return facts
}

// clean collapses runs of whitespace into single spaces.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
