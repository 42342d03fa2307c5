package tools

import (
	"context"

	"otter/server/internal/bookmark"
)

// filter reads the shared star/public/status/tag/type arguments.
func filter(args Args) bookmark.Filter {
	var f bookmark.Filter
	f.Star, _ = args.Bool("star")
	f.Public, _ = args.Bool("public")
	if s, ok := args.String("status"); ok {
		f.Status = bookmark.Status(s)
	}
	f.Tag, _ = args.String("tag")
	if t, ok := args.String("type"); ok {
		f.Type = bookmark.Type(t)
	}
	return f
}

func (r *Registry) searchBookmarks(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error) {
	text, _ := args.String("query")
	f := filter(args)
	f.Public = false // not a search filter

	q := bookmark.Query{Filter: f, Text: text, Limit: clampLimit(args)}
	rows, err := cc.Store.Select(ctx, cc.UserID, q)
	if err != nil {
		return ErrorResult("Search failed: " + err.Error()), nil
	}
	total, err := cc.Store.Count(ctx, cc.UserID, q)
	if err != nil {
		return ErrorResult("Search failed: " + err.Error()), nil
	}
	return TextResult(formatBookmarkList(rows, total)), nil
}

func (r *Registry) listBookmarks(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error) {
	q := bookmark.Query{
		Filter: filter(args),
		Offset: offset(args),
		Limit:  clampLimit(args),
	}
	if top, _ := args.Bool("top"); top {
		q.Order = bookmark.OrderTop
	}

	rows, err := cc.Store.Select(ctx, cc.UserID, q)
	if err != nil {
		return ErrorResult("List failed: " + err.Error()), nil
	}
	total, err := cc.Store.Count(ctx, cc.UserID, q)
	if err != nil {
		return ErrorResult("List failed: " + err.Error()), nil
	}
	return TextResult(formatBookmarkList(rows, total)), nil
}

func (r *Registry) listTags(ctx context.Context, cc CallContext, _ Args) (*ToolCallResult, error) {
	counts, err := cc.Store.TagCounts(ctx, cc.UserID)
	if err != nil {
		return ErrorResult("Failed to list tags: " + err.Error()), nil
	}
	if len(counts) == 0 {
		return TextResult("No tags found."), nil
	}
	return TextResult(formatTags(counts)), nil
}

func (r *Registry) getStats(ctx context.Context, cc CallContext, _ Args) (*ToolCallResult, error) {
	stats, err := cc.Store.Stats(ctx, cc.UserID)
	if err != nil {
		return ErrorResult("Stats failed: " + err.Error()), nil
	}
	return TextResult(formatStats(stats)), nil
}
