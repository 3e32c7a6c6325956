package fixtures

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// CountSitemaps returns how many sitemap files body refers to. A document
// that is not a sitemap index counts as a single sitemap.
func CountSitemaps(body []byte) int {
	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err != nil || len(idx.Sitemaps) == 0 {
		return 1
	}
	return len(idx.Sitemaps)
}

// FetchSitemapCount downloads sitemap.xml from baseURL and counts its files.
func FetchSitemapCount(ctx context.Context, client *http.Client, baseURL string) (int, error) {
	if client == nil {
		client = http.DefaultClient
	}
	url := baseURL + "/sitemap.xml"
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		url = baseURL + "sitemap.xml"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &AssertionError{What: "sitemap.xml", Expected: "HTTP 200", Actual: resp.Status}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return 0, err
	}
	return CountSitemaps(body), nil
}
