package tools

import (
	"context"
	"log"

	"otter/server/internal/bookmark"
)

// scraped is what a successful scrape contributes to a new bookmark.
type scraped struct {
	url         string
	title       *string
	description *string
	image       *string
	feed        *string
	typ         *bookmark.Type
	autoTags    []string
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scrape fetches rawURL and derives the bookmark fields it can. A nil result
// means the scrape failed and the bookmark is built from the input alone.
func (r *Registry) scrape(ctx context.Context, cc CallContext, rawURL string) *scraped {
	if r.deps.Scraper == nil {
		return nil
	}
	meta, err := r.deps.Scraper.Scrape(ctx, rawURL)
	if err != nil {
		log.Printf("[tools] create_bookmark: scrape %s: %v", rawURL, err)
		return nil
	}

	final := meta.URL
	if final == "" {
		final = rawURL
	}
	out := &scraped{
		url:         r.deps.CleanURL(final),
		title:       optional(meta.Title),
		description: optional(meta.Description),
		image:       optional(meta.Image),
		feed:        optional(meta.Feed()),
	}
	if out.url == "" {
		out.url = final
	}
	typ := r.deps.LinkType(rawURL, meta)
	out.typ = &typ

	counts, err := cc.Store.TagCounts(ctx, cc.UserID)
	if err != nil {
		log.Printf("[tools] create_bookmark: load tag vocabulary: %v", err)
		return out
	}
	vocabulary := make([]string, len(counts))
	for i, c := range counts {
		vocabulary[i] = c.Tag
	}
	out.autoTags = r.deps.MatchTags(meta.Title, meta.Description, vocabulary)
	return out
}

func (r *Registry) createBookmark(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error) {
	rawURL, _ := args.String("url")

	var s *scraped
	if doScrape, ok := args.Bool("scrape"); !ok || doScrape {
		s = r.scrape(ctx, cc, rawURL)
	}
	if s == nil {
		s = &scraped{url: rawURL}
	}

	userTags, _ := args.StringSlice("tags")
	tags := dedupe(append(append([]string{}, s.autoTags...), userTags...))

	b := &bookmark.Bookmark{
		URL:         s.url,
		Title:       s.title,
		Description: s.description,
		Image:       s.image,
		Feed:        s.feed,
		Type:        s.typ,
		Status:      bookmark.StatusActive,
	}
	if v, ok := args["title"].(string); ok {
		b.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		b.Description = &v
	}
	if v, ok := args.String("type"); ok {
		t := bookmark.Type(v)
		b.Type = &t
	}
	if v, ok := args.String("note"); ok {
		b.Note = &v
	}
	b.Star, _ = args.Bool("star")
	b.Public, _ = args.Bool("public")
	if len(tags) > 0 {
		b.Tags = bookmark.Tags(tags)
	}

	row, err := cc.Store.Insert(ctx, cc.UserID, b)
	if err != nil {
		return ErrorResult("Create failed: " + err.Error()), nil
	}
	if row == nil {
		return ErrorResult("Create succeeded but no data returned."), nil
	}
	return TextResult("Bookmark created:\n\n" + formatBookmark(row, 0)), nil
}
