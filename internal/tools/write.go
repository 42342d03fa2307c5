package tools

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"otter/server/internal/bookmark"
)

const notFoundText = "Bookmark not found or access denied."

// nullableText maps a supplied string argument onto a nullable column;
// an explicit null clears it.
func nullableText(args Args, key string, changes bookmark.Changes) {
	if !args.Has(key) {
		return
	}
	switch v := args[key].(type) {
	case nil:
		changes[key] = nil
	case string:
		changes[key] = v
	}
}

// updateChanges collects the columns update_bookmark writes. Only supplied
// fields are included.
func updateChanges(args Args) bookmark.Changes {
	changes := bookmark.Changes{}

	nullableText(args, "title", changes)
	nullableText(args, "description", changes)
	nullableText(args, "note", changes)

	if args.Has("tags") {
		if args["tags"] == nil {
			changes[bookmark.ColTags] = nil
		} else if tags, ok := args.StringSlice("tags"); ok {
			changes[bookmark.ColTags] = bookmark.Tags(dedupe(tags))
		}
	}
	if args.Has("type") {
		if args["type"] == nil {
			changes[bookmark.ColType] = nil
		} else if t, ok := args.String("type"); ok {
			changes[bookmark.ColType] = t
		}
	}
	if v, ok := args.Bool("star"); ok {
		changes[bookmark.ColStar] = v
	}
	if v, ok := args.Bool("public"); ok {
		changes[bookmark.ColPublic] = v
	}
	if v, ok := args.String("status"); ok {
		changes[bookmark.ColStatus] = v
	}
	return changes
}

// apply writes changes to the caller's bookmark id, translating failures
// into tool errors prefixed by action.
func (r *Registry) apply(ctx context.Context, cc CallContext, id string, changes bookmark.Changes, action, success string) (*ToolCallResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ErrorResult(notFoundText), nil
	}
	changes[bookmark.ColModifiedAt] = r.deps.Now().UTC()

	row, err := cc.Store.Update(ctx, cc.UserID, id, changes)
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		return ErrorResult(notFoundText), nil
	case err != nil:
		return ErrorResult(action + " failed: " + err.Error()), nil
	case row == nil:
		return ErrorResult(notFoundText), nil
	}
	return TextResult(success + ":\n\n" + formatBookmark(row, 0)), nil
}

func (r *Registry) updateBookmark(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error) {
	id, _ := args.String("id")
	changes := updateChanges(args)
	if len(changes) == 0 {
		return ErrorResult("No fields to update. Provide at least one field to change."), nil
	}
	return r.apply(ctx, cc, id, changes, "Update", "Bookmark updated")
}

func (r *Registry) deleteBookmark(ctx context.Context, cc CallContext, args Args) (*ToolCallResult, error) {
	id, _ := args.String("id")
	changes := bookmark.Changes{bookmark.ColStatus: string(bookmark.StatusInactive)}
	return r.apply(ctx, cc, id, changes, "Delete", "Bookmark moved to trash")
}
