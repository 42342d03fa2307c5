package tools

import (
	"fmt"
	"strings"

	"otter/server/internal/bookmark"
)

// formatBookmark renders one bookmark for display. index > 0 prefixes the
// entry with its list position.
func formatBookmark(b *bookmark.Bookmark, index int) string {
	var lines []string

	title := "(untitled)"
	if b.Title != nil && *b.Title != "" {
		title = *b.Title
	}
	if index > 0 {
		title = fmt.Sprintf("%d. %s", index, title)
	}
	lines = append(lines, title)

	if b.URL != "" {
		lines = append(lines, "   "+b.URL)
	}
	if b.Description != nil && *b.Description != "" {
		lines = append(lines, "   "+*b.Description)
	}
	if b.Note != nil && *b.Note != "" {
		lines = append(lines, "   Note: "+*b.Note)
	}

	var meta []string
	if len(b.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(b.Tags, ", "))
	}
	if b.Star {
		meta = append(meta, "★ Starred")
	}
	if b.Public {
		meta = append(meta, "Public")
	}
	if b.Type != nil && *b.Type != "" {
		meta = append(meta, "Type: "+string(*b.Type))
	}
	meta = append(meta, "Created: "+b.CreatedAt.UTC().Format("2006-01-02"))
	lines = append(lines, "   "+strings.Join(meta, " | "))

	lines = append(lines, "   ID: "+b.ID)
	return strings.Join(lines, "\n")
}

// formatBookmarkList renders a numbered listing headed by total, which may
// exceed len(rows) when the listing is one page of a larger result.
func formatBookmarkList(rows []bookmark.Bookmark, total int64) string {
	if len(rows) == 0 {
		return "No bookmarks found."
	}
	noun := "bookmarks"
	if total == 1 {
		noun = "bookmark"
	}
	entries := make([]string, len(rows))
	for i := range rows {
		entries[i] = formatBookmark(&rows[i], i+1)
	}
	return fmt.Sprintf("Found %d %s:\n", total, noun) + strings.Join(entries, "\n\n")
}

func formatTags(counts []bookmark.TagCount) string {
	lines := make([]string, len(counts))
	for i, c := range counts {
		lines[i] = fmt.Sprintf("%s (%d)", c.Tag, c.Count)
	}
	return fmt.Sprintf("%d tags:\n%s", len(counts), strings.Join(lines, "\n"))
}

func formatStats(s *bookmark.Stats) string {
	lines := []string{
		fmt.Sprintf("Bookmarks: %d total, %d starred, %d public, %d in trash, %d with clicks",
			s.All, s.Stars, s.Public, s.Trash, s.Top),
		"",
		"Types:",
	}
	for _, t := range s.Types {
		lines = append(lines, fmt.Sprintf("  %s: %d", t.Type, t.Count))
	}
	lines = append(lines, "", fmt.Sprintf("Tags: %d unique tags", len(s.Tags)), "", "Collections:")
	for _, c := range s.Collections {
		lines = append(lines, fmt.Sprintf("  %s: %d bookmarks", c.Collection, c.BookmarkCount))
	}
	return strings.Join(lines, "\n")
}
