package tools

import (
	"fmt"

	"otter/server/internal/bookmark"
)

var statusEnum = []string{string(bookmark.StatusActive), string(bookmark.StatusInactive)}

func typeProperty(description string) Property {
	return Property{Type: "string", Description: description, Enum: bookmark.TypeNames()}
}

var (
	limitProperty = Property{Type: "number", Description: fmt.Sprintf("Max results (default: %d, max: %d)", defaultLimit, maxLimit)}
	starFilter    = Property{Type: "boolean", Description: "Only starred bookmarks"}
	statusFilter  = Property{Type: "string", Description: "Filter by status (default: active)", Enum: statusEnum}
	tagFilter     = Property{Type: "string", Description: "Filter by tag"}
	stringItems   = &Property{Type: "string"}
)

func definition(name Name) Tool {
	switch name {
	case SearchBookmarks:
		return Tool{
			Name:        string(name),
			Description: "Search bookmarks by text across title, URL, description, note, and tags.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":  {Type: "string", Description: "Search term"},
					"limit":  limitProperty,
					"star":   starFilter,
					"status": statusFilter,
					"tag":    tagFilter,
					"type":   typeProperty("Filter by bookmark type"),
				},
				Required: []string{"query"},
			},
			Annotations: AnnotateReadOnly,
		}
	case ListBookmarks:
		return Tool{
			Name:        string(name),
			Description: "List bookmarks with filters (no text search). Use search_bookmarks for text search.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"limit":  limitProperty,
					"offset": {Type: "number", Description: "Pagination offset (default: 0)"},
					"public": {Type: "boolean", Description: "Only public bookmarks"},
					"star":   starFilter,
					"status": statusFilter,
					"tag":    tagFilter,
					"top":    {Type: "boolean", Description: "Sort by click count (most clicked first)"},
					"type":   typeProperty("Filter by bookmark type"),
				},
			},
			Annotations: AnnotateReadOnly,
		}
	case ListTags:
		return Tool{
			Name:        string(name),
			Description: "List all tags with usage counts.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
			Annotations: AnnotateReadOnly,
		}
	case GetStats:
		return Tool{
			Name:        string(name),
			Description: "Get database overview: total bookmarks, starred, public, trash counts, type breakdown, and collections.",
			InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
			Annotations: AnnotateReadOnly,
		}
	case RandomBookmark:
		return Tool{
			Name:        string(name),
			Description: "Get random bookmark(s) matching optional filters.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"count": {Type: "number", Description: fmt.Sprintf("Number of random bookmarks (default: 1, max: %d)", maxRandom)},
					"tag":   tagFilter,
					"type":  typeProperty("Filter by bookmark type"),
				},
			},
			Annotations: AnnotateReadOnly,
		}
	case CreateBookmark:
		return Tool{
			Name:        string(name),
			Description: "Create a new bookmark. By default, automatically fetches title, description, tags, and type from the URL.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"url":         {Type: "string", Description: "Bookmark URL"},
					"title":       {Type: "string", Description: "Title (overrides scraped title)"},
					"description": {Type: "string", Description: "Description (overrides scraped description)"},
					"note":        {Type: "string", Description: "Personal note"},
					"tags":        {Type: "array", Description: "Tags (merged with auto-detected tags)", Items: stringItems},
					"type":        typeProperty("Bookmark type (overrides detected type)"),
					"star":        {Type: "boolean", Description: "Star the bookmark"},
					"public":      {Type: "boolean", Description: "Make publicly visible"},
					"scrape":      {Type: "boolean", Description: "Auto-fetch metadata from URL (default: true). Set false to skip."},
				},
				Required: []string{"url"},
			},
			Annotations: AnnotateCreate,
		}
	case UpdateBookmark:
		return Tool{
			Name:        string(name),
			Description: "Update an existing bookmark by ID.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"id":          {Type: "string", Description: "Bookmark UUID"},
					"title":       {Type: "string", Description: "New title"},
					"description": {Type: "string", Description: "New description"},
					"note":        {Type: "string", Description: "New note"},
					"tags":        {Type: "array", Description: "New tags (replaces existing)", Items: stringItems},
					"type":        typeProperty("New type"),
					"star":        {Type: "boolean", Description: "Star/unstar"},
					"public":      {Type: "boolean", Description: "Make public/private"},
					"status":      {Type: "string", Description: "Set to inactive to trash", Enum: statusEnum},
				},
				Required: []string{"id"},
			},
			Annotations: AnnotateUpdate,
		}
	case DeleteBookmark:
		return Tool{
			Name:        string(name),
			Description: "Soft-delete a bookmark by moving it to trash (sets status to inactive).",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"id": {Type: "string", Description: "Bookmark UUID"},
				},
				Required: []string{"id"},
			},
			Annotations: AnnotateDelete,
		}
	}
	panic(fmt.Sprintf("tools: no definition for %q", name))
}
