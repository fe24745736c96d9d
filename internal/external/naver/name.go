package naver

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNameNotFound is returned when the item page has no company title
var ErrNameNotFound = errors.New("naver: instrument name not found")

// FetchName scrapes the display name of a stock code from its item page
func (c *Client) FetchName(ctx context.Context, code string) (string, error) {
	params := url.Values{}
	params.Set("code", code)

	html, err := c.fetchHTML(ctx, "/item/main.naver", params)
	if err != nil {
		return "", err
	}

	return parseNameHTML(html)
}

// parseNameHTML extracts the company title of an item page
func parseNameHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, sel := range []string{"div.wrap_company h2 a", "div.wrap_company h2"} {
		if name := strings.TrimSpace(doc.Find(sel).First().Text()); name != "" {
			return name, nil
		}
	}

	return "", ErrNameNotFound
}
