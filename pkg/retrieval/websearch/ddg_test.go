package websearch

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const resultPage = `<html><body>
<div class="result">
	<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&amp;rut=abc">Go Documentation</a>
	<div class="result__snippet">Official Go documentation.</div>
</div>
<div class="result">
	<a class="result__a" href="https://go.dev/blog/">The Go Blog</a>
	<div class="result__snippet">Articles from the Go team.</div>
</div>
<div class="result">
	<a class="result__a" href="https://example.com/empty-title"></a>
</div>
<div class="result">
	<a class="result__a" href="https://go.dev/talks/">Go Talks</a>
	<div class="result__snippet">Slides and videos.</div>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	hits := parseResults(mustParse(t, resultPage), 10)
	require.Len(t, hits, 3)

	assert.Equal(t, "Go Documentation", hits[0].Title)
	assert.Equal(t, "https://go.dev/doc/", hits[0].URL) // redirect unwrapped
	assert.Equal(t, "Official Go documentation.", hits[0].Snippet)

	assert.Equal(t, "The Go Blog", hits[1].Title)
	assert.Equal(t, "https://go.dev/blog/", hits[1].URL)

	// The empty-title block is skipped without ending the walk.
	assert.Equal(t, "Go Talks", hits[2].Title)
}

func TestParseResultsRespectsMax(t *testing.T) {
	hits := parseResults(mustParse(t, resultPage), 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "Go Documentation", hits[0].Title)
}

func TestCleanRedirect(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{
			name:     "uddg redirect",
			href:     "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=x",
			expected: "https://example.com/page",
		},
		{
			name:     "direct link untouched",
			href:     "https://example.com/page",
			expected: "https://example.com/page",
		},
		{
			name:     "protocol-relative without redirect",
			href:     "//example.com/page",
			expected: "https://example.com/page",
		},
		{
			name:     "empty",
			href:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanRedirect(tt.href))
		})
	}
}
