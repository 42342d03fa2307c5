package tools

import (
	"context"
	"log"

	"otter/server/internal/bookmark"
)

// maxOffsetRedraws bounds the random draws spent looking for an unused
// offset before falling back to a linear probe.
const maxOffsetRedraws = 32

// sampleOffsets picks min(k, n) distinct offsets in [0, n) using intn as the
// source of uniform draws.
func sampleOffsets(n, k int, intn func(int) int) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	used := make(map[int]bool, k)
	offsets := make([]int, 0, k)
	for len(offsets) < k && len(used) < n {
		off := intn(n)
		for i := 0; used[off] && i < maxOffsetRedraws; i++ {
			off = intn(n)
		}
		for used[off] {
			off = (off + 1) % n
		}
		used[off] = true
		offsets = append(offsets, off)
	}
	return offsets
}

func (r *Registry) randomBookmark(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error) {
	k := clampCount(args)

	var f bookmark.Filter
	f.Tag, _ = args.String("tag")
	if t, ok := args.String("type"); ok {
		f.Type = bookmark.Type(t)
	}

	n, err := cc.Store.Count(ctx, cc.UserID, bookmark.Query{Filter: f})
	if err != nil {
		return ErrorResult("Failed to count: " + err.Error()), nil
	}
	if n == 0 {
		return TextResult("No matching bookmarks found."), nil
	}

	var picked []bookmark.Bookmark
	for _, off := range sampleOffsets(int(n), k, r.deps.Intn) {
		rows, err := cc.Store.Select(ctx, cc.UserID, bookmark.Query{Filter: f, Offset: off, Limit: 1})
		if err != nil {
			// A failed draw only shrinks the sample.
			log.Printf("[tools] random_bookmark: fetch offset %d: %v", off, err)
			continue
		}
		if len(rows) > 0 {
			picked = append(picked, rows[0])
		}
	}

	if len(picked) == 0 {
		return TextResult("No bookmarks found."), nil
	}
	return TextResult(formatBookmarkList(picked, int64(len(picked)))), nil
}
