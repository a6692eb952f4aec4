package websearch

import (
	"context"
	"log"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"wiki-chat-be/pkg/retrieval"
)

const (
	textHitLimit = 5
	newsHitLimit = 3

	// Hits past the 4th per sub-query are discarded outright.
	maxSnippets = 3

	detailedScore = 0.9
	snippetScore  = 0.7
	fallbackScore = 0.5
)

// Adapter is the general web-search provider. It issues a text sub-query and
// a news sub-query concurrently, deep-fetches the top hit of each, and keeps
// the remaining hits as lightweight snippets. Total failure degrades to a
// single low-confidence stub pointing at a generic search URL.
type Adapter struct {
	textSearch SearchFunc
	newsSearch SearchFunc
	fetcher    *ContentFetcher
	logger     *log.Logger
}

var _ retrieval.Adapter = &Adapter{}

// Config controls the adapter's sub-query wiring. Zero values pick the real
// DuckDuckGo client with the given timeouts.
type Config struct {
	Endpoint   string
	SearchTime time.Duration
	FetchTime  time.Duration
	TextSearch SearchFunc // test override
	NewsSearch SearchFunc // test override
}

func New(cfg Config, logger *log.Logger) *Adapter {
	if cfg.SearchTime <= 0 {
		cfg.SearchTime = 8 * time.Second
	}
	if cfg.FetchTime <= 0 {
		cfg.FetchTime = 10 * time.Second
	}

	textSearch := cfg.TextSearch
	newsSearch := cfg.NewsSearch
	if textSearch == nil || newsSearch == nil {
		client := newDDGClient(cfg.Endpoint, cfg.SearchTime)
		if textSearch == nil {
			textSearch = client.Text
		}
		if newsSearch == nil {
			newsSearch = client.News
		}
	}

	return &Adapter{
		textSearch: textSearch,
		newsSearch: newsSearch,
		fetcher:    NewContentFetcher(cfg.FetchTime),
		logger:     logger,
	}
}

func (a *Adapter) Name() string {
	return "websearch"
}

// Search runs both sub-queries and normalizes their hits. Output order is
// fixed: detailed text hit, text snippets, detailed news hit, news snippets.
func (a *Adapter) Search(ctx context.Context, query string) []retrieval.ScoredResult {
	var textResults, newsResults []retrieval.ScoredResult
	var textErr, newsErr error

	g := new(errgroup.Group)
	g.Go(func() error {
		hits, err := a.textSearch(ctx, query, textHitLimit)
		if err != nil {
			textErr = err
			return nil
		}
		textResults = a.normalize(ctx, hits, retrieval.SourceWebText)
		return nil
	})
	g.Go(func() error {
		hits, err := a.newsSearch(ctx, query, newsHitLimit)
		if err != nil {
			newsErr = err
			return nil
		}
		newsResults = a.normalize(ctx, hits, retrieval.SourceWebNews)
		return nil
	})
	_ = g.Wait()

	if textErr != nil && newsErr != nil {
		a.logger.Printf("[WARN] Web search failed for %q: text=%v news=%v", query, textErr, newsErr)
		return a.fallbackStub(query)
	}

	results := make([]retrieval.ScoredResult, 0, len(textResults)+len(newsResults))
	results = append(results, textResults...)
	results = append(results, newsResults...)
	return results
}

// normalize turns raw hits into scored results. The top hit gets a deep
// content fetch and the detailed source/score; the fetch degrading to the
// search snippet is expected and never surfaces as an error.
func (a *Adapter) normalize(ctx context.Context, hits []Hit, source retrieval.Source) []retrieval.ScoredResult {
	if len(hits) == 0 {
		return nil
	}

	results := make([]retrieval.ScoredResult, 0, len(hits))

	top := hits[0]
	content := top.Snippet
	if fetched, err := a.fetcher.Fetch(ctx, top.URL); err == nil && fetched != "" {
		content = fetched
	} else if err != nil {
		a.logger.Printf("[WARN] Deep fetch failed for %s, using snippet: %v", top.URL, err)
	}
	results = append(results, retrieval.ScoredResult{
		Title:   top.Title,
		Content: content,
		URL:     top.URL,
		Source:  retrieval.SourceWebTextDetailed,
		Score:   detailedScore,
	})

	snippets := hits[1:]
	if len(snippets) > maxSnippets {
		snippets = snippets[:maxSnippets]
	}
	for _, hit := range snippets {
		results = append(results, retrieval.ScoredResult{
			Title:   hit.Title,
			Content: hit.Snippet,
			URL:     hit.URL,
			Source:  source,
			Score:   snippetScore,
		})
	}
	return results
}

// fallbackStub bounds total failure to one low-confidence pointer at a
// generic search page instead of an empty set.
func (a *Adapter) fallbackStub(query string) []retrieval.ScoredResult {
	if query == "" {
		return nil
	}
	return []retrieval.ScoredResult{{
		Title:   "Search: " + query,
		Content: "Web search results for '" + query + "'",
		URL:     "https://duckduckgo.com/?q=" + url.QueryEscape(query),
		Source:  retrieval.SourceFallback,
		Score:   fallbackScore,
	}}
}
