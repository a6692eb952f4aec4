package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Hit is one raw search hit before normalization.
type Hit struct {
	Title   string
	URL     string
	Snippet string
}

// SearchFunc issues one sub-query against a search vertical.
type SearchFunc func(ctx context.Context, query string, max int) ([]Hit, error)

// ddgClient scrapes the DuckDuckGo HTML endpoint, which is stable enough
// for unauthenticated queries. Text and news share the parser; news adds
// the vertical parameters.
type ddgClient struct {
	endpoint string
	client   *http.Client
}

func newDDGClient(endpoint string, timeout time.Duration) *ddgClient {
	if endpoint == "" {
		endpoint = "https://html.duckduckgo.com/html/"
	}
	return &ddgClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (d *ddgClient) Text(ctx context.Context, query string, max int) ([]Hit, error) {
	return d.search(ctx, query, max, false)
}

func (d *ddgClient) News(ctx context.Context, query string, max int) ([]Hit, error) {
	return d.search(ctx, query, max, true)
}

func (d *ddgClient) search(ctx context.Context, query string, max int, news bool) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	form := url.Values{}
	form.Set("q", query)
	if news {
		form.Set("ia", "news")
		form.Set("iar", "news")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseResults(doc, max), nil
}

// parseResults walks the classic result markup: div.result blocks with an
// a.result__a title link and a .result__snippet.
func parseResults(doc *goquery.Document, max int) []Hit {
	var hits []Hit
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		href = cleanRedirect(href)
		title := strings.TrimSpace(link.Text())
		if href == "" || title == "" {
			return true
		}
		hits = append(hits, Hit{
			Title:   title,
			URL:     href,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(hits) < max
	})
	return hits
}

// cleanRedirect unwraps the uddg= redirect DuckDuckGo wraps external links in.
func cleanRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	return href
}
