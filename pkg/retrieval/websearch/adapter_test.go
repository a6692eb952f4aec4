package websearch

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-chat-be/pkg/retrieval"
)

func silentLogger() *log.Logger {
	return log.New(discard{}, "", 0)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func staticSearch(hits []Hit, err error) SearchFunc {
	return func(ctx context.Context, query string, max int) ([]Hit, error) {
		return hits, err
	}
}

// contentServer serves an article page for deep-fetch requests.
func contentServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
}

func TestSearchOrderAndScores(t *testing.T) {
	srv := contentServer(t, `<html><body><main><p>Deep article body.</p></main></body></html>`)
	defer srv.Close()

	adapter := New(Config{
		TextSearch: staticSearch([]Hit{
			{Title: "t1", URL: srv.URL + "/a", Snippet: "text snippet 1"},
			{Title: "t2", URL: srv.URL + "/b", Snippet: "text snippet 2"},
		}, nil),
		NewsSearch: staticSearch([]Hit{
			{Title: "n1", URL: srv.URL + "/c", Snippet: "news snippet 1"},
			{Title: "n2", URL: srv.URL + "/d", Snippet: "news snippet 2"},
		}, nil),
	}, silentLogger())

	out := adapter.Search(context.Background(), "query")
	require.Len(t, out, 4)

	// Text block first, news block second; each block leads with the
	// deep-fetched hit.
	assert.Equal(t, "t1", out[0].Title)
	assert.Equal(t, retrieval.SourceWebTextDetailed, out[0].Source)
	assert.Equal(t, 0.9, out[0].Score)
	assert.Equal(t, "Deep article body.", out[0].Content)

	assert.Equal(t, "t2", out[1].Title)
	assert.Equal(t, retrieval.SourceWebText, out[1].Source)
	assert.Equal(t, 0.7, out[1].Score)
	assert.Equal(t, "text snippet 2", out[1].Content)

	assert.Equal(t, "n1", out[2].Title)
	assert.Equal(t, retrieval.SourceWebTextDetailed, out[2].Source)

	assert.Equal(t, "n2", out[3].Title)
	assert.Equal(t, retrieval.SourceWebNews, out[3].Source)
}

func TestSearchDropsHitsPastFourth(t *testing.T) {
	srv := contentServer(t, `<html><body><main><p>Deep article body.</p></main></body></html>`)
	defer srv.Close()

	adapter := New(Config{
		TextSearch: staticSearch([]Hit{
			{Title: "t1", URL: srv.URL + "/1", Snippet: "s1"},
			{Title: "t2", URL: srv.URL + "/2", Snippet: "s2"},
			{Title: "t3", URL: srv.URL + "/3", Snippet: "s3"},
			{Title: "t4", URL: srv.URL + "/4", Snippet: "s4"},
			{Title: "t5", URL: srv.URL + "/5", Snippet: "s5"},
		}, nil),
		NewsSearch: staticSearch(nil, nil),
	}, silentLogger())

	out := adapter.Search(context.Background(), "query")

	// Top hit detailed plus the 2nd-4th as snippets; the 5th is dropped.
	require.Len(t, out, 4)
	assert.Equal(t, retrieval.SourceWebTextDetailed, out[0].Source)
	assert.Equal(t, "t2", out[1].Title)
	assert.Equal(t, "t4", out[3].Title)
	for _, r := range out[1:] {
		assert.Equal(t, retrieval.SourceWebText, r.Source)
		assert.Equal(t, 0.7, r.Score)
	}
}

func TestSearchDeepFetchDegradesToSnippet(t *testing.T) {
	adapter := New(Config{
		TextSearch: staticSearch([]Hit{
			{Title: "t1", URL: "http://127.0.0.1:1/unreachable", Snippet: "the snippet"},
		}, nil),
		NewsSearch: staticSearch(nil, nil),
	}, silentLogger())

	out := adapter.Search(context.Background(), "query")
	require.Len(t, out, 1)

	// Still reported as the detailed hit, just with snippet content.
	assert.Equal(t, retrieval.SourceWebTextDetailed, out[0].Source)
	assert.Equal(t, 0.9, out[0].Score)
	assert.Equal(t, "the snippet", out[0].Content)
}

func TestSearchTotalFailureReturnsStub(t *testing.T) {
	adapter := New(Config{
		TextSearch: staticSearch(nil, errors.New("text down")),
		NewsSearch: staticSearch(nil, errors.New("news down")),
	}, silentLogger())

	out := adapter.Search(context.Background(), "distributed consensus")
	require.Len(t, out, 1)

	assert.Equal(t, "Search: distributed consensus", out[0].Title)
	assert.Equal(t, "Web search results for 'distributed consensus'", out[0].Content)
	assert.Equal(t, retrieval.SourceFallback, out[0].Source)
	assert.Equal(t, 0.5, out[0].Score)
	assert.Contains(t, out[0].URL, "duckduckgo.com")
}

func TestSearchTotalFailureEmptyQuery(t *testing.T) {
	adapter := New(Config{
		TextSearch: staticSearch(nil, errors.New("down")),
		NewsSearch: staticSearch(nil, errors.New("down")),
	}, silentLogger())

	assert.Empty(t, adapter.Search(context.Background(), ""))
}

func TestSearchPartialFailureKeepsOtherBlock(t *testing.T) {
	adapter := New(Config{
		TextSearch: staticSearch(nil, errors.New("text down")),
		NewsSearch: staticSearch([]Hit{
			{Title: "n1", URL: "http://127.0.0.1:1/x", Snippet: "news snippet"},
		}, nil),
	}, silentLogger())

	out := adapter.Search(context.Background(), "query")
	require.Len(t, out, 1)
	assert.Equal(t, "n1", out[0].Title)
	assert.NotEqual(t, retrieval.SourceFallback, out[0].Source)
}

func TestExtractContentPrefersMainRegion(t *testing.T) {
	html := `<html><body>
		<nav><p>navigation junk</p></nav>
		<main><p>First paragraph.</p><p>Second paragraph.</p></main>
		<footer><p>footer junk</p></footer>
	</body></html>`

	doc := mustParse(t, html)
	content := ExtractContent(doc)

	assert.Contains(t, content, "First paragraph.")
	assert.Contains(t, content, "Second paragraph.")
	assert.NotContains(t, content, "navigation junk")
	assert.NotContains(t, content, "footer junk")
}

func TestExtractContentCapsLength(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	for i := 0; i < 100; i++ {
		b.WriteString("<p>" + strings.Repeat("x", 100) + "</p>")
	}
	b.WriteString("</main></body></html>")

	content := ExtractContent(mustParse(t, b.String()))

	assert.LessOrEqual(t, len([]rune(content)), maxContentChars+len("..."))
	assert.True(t, strings.HasSuffix(content, "..."))
}
