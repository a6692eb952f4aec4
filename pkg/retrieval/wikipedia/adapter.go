package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wiki-chat-be/pkg/retrieval"
)

const (
	defaultBaseURL = "https://en.wikipedia.org"
	searchLimit    = 3
	maxOptions     = 5
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Adapter looks up the single best encyclopedia page for a query: a title
// search followed by a summary fetch for the top hit. Disambiguation pages
// are a successful outcome variant, not an error.
type Adapter struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

var _ retrieval.Adapter = &Adapter{}

func New(logger *log.Logger) *Adapter {
	return NewWithBaseURL(defaultBaseURL, logger)
}

// NewWithBaseURL overrides the API host. Used by tests to point the adapter
// at a local stub server.
func NewWithBaseURL(baseURL string, logger *log.Logger) *Adapter {
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (a *Adapter) Name() string {
	return "wikipedia"
}

// Search maps the tagged lookup outcome onto the common result shape.
// NotFound and Fault both contribute zero results; faults are logged here
// and never propagate.
func (a *Adapter) Search(ctx context.Context, query string) []retrieval.ScoredResult {
	outcome := a.Lookup(ctx, query)
	switch outcome.Kind {
	case retrieval.OutcomeOk, retrieval.OutcomeDisambiguation:
		return []retrieval.ScoredResult{*outcome.Result}
	case retrieval.OutcomeNotFound:
		return nil
	default:
		a.logger.Printf("[WARN] Wikipedia search error: %v", outcome.Err)
		return nil
	}
}

// Lookup runs the title search and summary fetch, returning a tagged outcome.
func (a *Adapter) Lookup(ctx context.Context, query string) retrieval.Outcome {
	titles, err := a.searchTitles(ctx, query)
	if err != nil {
		return retrieval.Outcome{Kind: retrieval.OutcomeFault, Err: err}
	}
	if len(titles) == 0 {
		return retrieval.Outcome{Kind: retrieval.OutcomeNotFound}
	}

	summary, err := a.fetchSummary(ctx, titles[0])
	if err != nil {
		return retrieval.Outcome{Kind: retrieval.OutcomeFault, Err: err}
	}
	if summary == nil {
		return retrieval.Outcome{Kind: retrieval.OutcomeNotFound}
	}

	if summary.Type == "disambiguation" {
		// The candidate topics are the links on the disambiguation page
		// itself; the title search is just a narrower echo of the query.
		options, err := a.fetchOptions(ctx, summary.Title)
		if err != nil || len(options) == 0 {
			if err != nil {
				a.logger.Printf("[WARN] Disambiguation links fetch failed for %q, using search titles: %v", summary.Title, err)
			}
			options = titles
		}
		if len(options) > maxOptions {
			options = options[:maxOptions]
		}
		return retrieval.Outcome{
			Kind:    retrieval.OutcomeDisambiguation,
			Options: options,
			Result: &retrieval.ScoredResult{
				Title:   "Disambiguation: " + query,
				Content: "Multiple options found: " + strings.Join(options, ", "),
				URL:     a.baseURL + "/wiki/" + strings.ReplaceAll(query, " ", "_"),
				Source:  retrieval.SourceDisambiguation,
				Score:   0.7,
			},
		}
	}

	pageURL := summary.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = a.baseURL + "/wiki/" + strings.ReplaceAll(summary.Title, " ", "_")
	}

	return retrieval.Outcome{
		Kind: retrieval.OutcomeOk,
		Result: &retrieval.ScoredResult{
			Title:   summary.Title,
			Content: summary.Extract,
			URL:     pageURL,
			Source:  retrieval.SourceEncyclopedia,
			Score:   0.9,
		},
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

func (a *Adapter) searchTitles(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("format", "json")
	params.Set("srlimit", fmt.Sprintf("%d", searchLimit))
	params.Set("srsearch", query)

	endpoint := a.baseURL + "/w/api.php?" + params.Encode()
	body, err := a.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("wikipedia search decode: %w", err)
	}

	titles := make([]string, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

type linksResponse struct {
	Query struct {
		Pages map[string]struct {
			Links []struct {
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// fetchOptions lists the article links on a disambiguation page, the
// candidate topics the page exists to separate.
func (a *Adapter) fetchOptions(ctx context.Context, title string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "links")
	params.Set("format", "json")
	params.Set("plnamespace", "0")
	params.Set("pllimit", fmt.Sprintf("%d", maxOptions))
	params.Set("titles", title)

	endpoint := a.baseURL + "/w/api.php?" + params.Encode()
	body, err := a.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed linksResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("wikipedia links decode: %w", err)
	}

	var options []string
	for _, page := range parsed.Query.Pages {
		for _, link := range page.Links {
			options = append(options, link.Title)
		}
	}
	return options, nil
}

type summaryResponse struct {
	Title       string `json:"title"`
	Type        string `json:"type"` // "standard" | "disambiguation" | ...
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// fetchSummary returns nil without error when the page does not exist.
func (a *Adapter) fetchSummary(ctx context.Context, title string) (*summaryResponse, error) {
	endpoint := a.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia summary http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed summaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("wikipedia summary decode: %w", err)
	}
	return &parsed, nil
}

func (a *Adapter) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
