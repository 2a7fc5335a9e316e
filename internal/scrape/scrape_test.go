package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>  GlowCup — Self-Heating Mug  </title>
<meta name="description" content="A mug that keeps coffee at 60C all day.">
<meta property="og:title" content="GlowCup">
<meta property="og:description" content="Never drink cold coffee again.">
</head>
<body>
<nav>Home About</nav>
<h1>The Last Mug You Will Buy</h1>
<h2>Battery powered, app controlled</h2>
<script>console.log("tracking")</script>
<p>GlowCup holds temperature for 8 hours on one charge.</p>
<footer>Copyright</footer>
</body>
</html>`

func TestPageFacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	facts, err := PageFacts(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("PageFacts failed: %v", err)
	}

	if facts.Title != "GlowCup — Self-Heating Mug" {
		t.Errorf("title = %q", facts.Title)
	}
	if facts.Description != "A mug that keeps coffee at 60C all day." {
		t.Errorf("description = %q", facts.Description)
	}
	if facts.OpenGraph["og:title"] != "GlowCup" {
		t.Errorf("og:title = %q", facts.OpenGraph["og:title"])
	}
	if len(facts.Headings) != 2 {
		t.Fatalf("headings = %v", facts.Headings)
	}
	if facts.Headings[0] != "The Last Mug You Will Buy" {
		t.Errorf("first heading = %q", facts.Headings[0])
	}
	if strings.Contains(facts.BodyText, "tracking") {
		t.Error("script content leaked into body text")
	}
	if strings.Contains(facts.BodyText, "Copyright") {
		t.Error("footer content leaked into body text")
	}
	if !strings.Contains(facts.BodyText, "8 hours") {
		t.Errorf("body text missing paragraph content: %q", facts.BodyText)
	}
}

func TestPageFactsString(t *testing.T) {
	facts := &Facts{
		Title:       "GlowCup",
		Description: "Self-heating mug",
		OpenGraph:   map[string]string{"og:title": "GlowCup"},
		Headings:    []string{"H1", "H2"},
		BodyText:    "body",
	}
	rendered := facts.String()
	for _, want := range []string{"Title: GlowCup", "Description: Self-heating mug", "og:title: GlowCup", "Headings: H1 | H2", "Page text: body"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered facts missing %q:\n%s", want, rendered)
		}
	}
}

func TestPageFactsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := PageFacts(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 page")
	}
}
