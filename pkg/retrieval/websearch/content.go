package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxContentChars = 2000

// ContentFetcher retrieves a linked page and extracts its readable text.
type ContentFetcher struct {
	client *http.Client
}

func NewContentFetcher(timeout time.Duration) *ContentFetcher {
	return &ContentFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Fetch downloads the page and returns its main paragraph text, capped at
// 2000 characters. Navigation chrome and scripts are stripped; a semantic
// main-content region is preferred over the whole document when present.
func (f *ContentFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	trimmed := strings.TrimSpace(pageURL)
	if trimmed == "" {
		return "", errors.New("fetch url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trimmed, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	return ExtractContent(doc), nil
}

// ExtractContent pulls paragraph text out of an already-parsed document.
func ExtractContent(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside").Remove()

	region := doc.Find("main").First()
	if region.Length() == 0 {
		region = doc.Find("article").First()
	}
	if region.Length() == 0 {
		region = doc.Find("div.content, div.main, div.article").First()
	}

	paragraphs := doc.Find("p")
	if region.Length() > 0 {
		paragraphs = region.Find("p")
	}

	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	content := strings.Join(parts, " ")
	if runes := []rune(content); len(runes) > maxContentChars {
		content = string(runes[:maxContentChars]) + "..."
	}
	return content
}
