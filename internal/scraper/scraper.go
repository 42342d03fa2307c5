// Package scraper fetches a web page and extracts the metadata a new bookmark
// is seeded with.
package scraper

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const maxBodySize = 5 * 1024 * 1024

// Metadata is what a successful scrape yields. Empty strings mean the page
// did not provide the field.
type Metadata struct {
	URL         string // final URL after redirects
	Title       string
	Description string
	Image       string
	Feeds       []string
	ContentType string // media type of the response, parameters stripped
	OGType      string // og:type as published by the page
}

// Feed returns the first advertised feed, or "".
func (m *Metadata) Feed() string {
	if len(m.Feeds) == 0 {
		return ""
	}
	return m.Feeds[0]
}

// Scraper fetches pages over HTTP.
type Scraper struct {
	client    *http.Client
	userAgent string
}

// New creates a Scraper with the given per-request timeout and User-Agent.
func New(timeout time.Duration, userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Scrape fetches rawURL and extracts its metadata. Any transport failure,
// non-2xx status or unparsable document is returned as an error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	meta := &Metadata{URL: resp.Request.URL.String()}
	rawType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(rawType); err == nil {
		meta.ContentType = mt
	}
	if meta.ContentType != "" && meta.ContentType != "text/html" && meta.ContentType != "application/xhtml+xml" {
		// Images, PDFs and the like carry no document metadata.
		return meta, nil
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), rawType)
	if err != nil {
		return nil, errors.Wrap(err, "decode body")
	}
	doc, err := html.Parse(body)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	extract(doc, meta, resp.Request.URL)
	return meta, nil
}

var (
	titleKeys       = []string{"og:title", "twitter:title"}
	descriptionKeys = []string{"og:description", "twitter:description", "description"}
	imageKeys       = []string{"og:image", "og:image:url", "twitter:image", "twitter:image:src"}
)

func extract(doc *html.Node, meta *Metadata, base *url.URL) {
	// First occurrence of each meta key wins.
	found := map[string]string{}
	var docTitle string
	var feeds []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				content := strings.TrimSpace(attr(n, "content"))
				if key != "" && content != "" {
					if _, ok := found[key]; !ok {
						found[key] = content
					}
				}
			case "title":
				if docTitle == "" {
					docTitle = collapse(text(n))
				}
			case "link":
				if isFeedLink(n) {
					if href := resolve(base, attr(n, "href")); href != "" {
						feeds = append(feeds, href)
					}
				}
			case "script", "style", "noscript", "svg":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	meta.Title = first(found, titleKeys)
	if meta.Title == "" {
		meta.Title = docTitle
	}
	meta.Description = first(found, descriptionKeys)
	meta.Image = resolve(base, first(found, imageKeys))
	meta.OGType = strings.ToLower(found["og:type"])
	meta.Feeds = feeds
}

func isFeedLink(n *html.Node) bool {
	rel := strings.ToLower(attr(n, "rel"))
	if !strings.Contains(rel, "alternate") {
		return false
	}
	switch strings.ToLower(attr(n, "type")) {
	case "application/rss+xml", "application/atom+xml", "application/feed+json":
		return true
	}
	return false
}

func first(found map[string]string, keys []string) string {
	for _, k := range keys {
		if v := found[k]; v != "" {
			return v
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
