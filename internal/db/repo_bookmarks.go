package db

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"otter/server/internal/bookmark"
)

// BookmarkStore implements bookmark.Store on top of GORM.
type BookmarkStore struct {
	db *gorm.DB
}

// NewBookmarkStore wraps an open database.
func NewBookmarkStore(database *gorm.DB) *BookmarkStore {
	return &BookmarkStore{db: database}
}

var _ bookmark.Store = (*BookmarkStore)(nil)

// HealthCheck verifies database connectivity.
func (s *BookmarkStore) HealthCheck() error {
	return HealthCheck(s.db)
}

// likeEscaper escapes LIKE wildcards so search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// scoped builds the owner- and filter-restricted base query shared by
// Select and Count.
func (s *BookmarkStore) scoped(ctx context.Context, userID string, q bookmark.Query) *gorm.DB {
	tx := s.db.WithContext(ctx).
		Model(&bookmark.Bookmark{}).
		Where(`"user" = ?`, userID).
		Where("status = ?", string(q.EffectiveStatus()))

	if q.Star {
		tx = tx.Where("star = ?", true)
	}
	if q.Public {
		tx = tx.Where("public = ?", true)
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", string(q.Type))
	}
	if q.Tag != "" {
		tx = tx.Where("tags @> ?", bookmark.Tags{q.Tag})
	}
	if q.Text != "" {
		tx = tx.Where(
			"(title ILIKE @term OR url ILIKE @term OR description ILIKE @term OR note ILIKE @term OR array_to_string(tags, ' ') ILIKE @term)",
			sql.Named("term", likePattern(q.Text)),
		)
	}
	if q.Order == bookmark.OrderTop {
		tx = tx.Where("click_count > 0")
	}
	return tx
}

func ordered(tx *gorm.DB, order bookmark.Order) *gorm.DB {
	if order == bookmark.OrderTop {
		tx = tx.Order("click_count DESC")
	}
	return tx.Order("created_at DESC").Order("id")
}

// Select returns one page of the caller's bookmarks matching q.
func (s *BookmarkStore) Select(ctx context.Context, userID string, q bookmark.Query) ([]bookmark.Bookmark, error) {
	tx := ordered(s.scoped(ctx, userID, q), q.Order)
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []bookmark.Bookmark
	if err := tx.Find(&rows).Error; err != nil {
		return nil, classify(err, "select bookmarks")
	}
	return rows, nil
}

// Count returns the exact number of the caller's bookmarks matching q.
func (s *BookmarkStore) Count(ctx context.Context, userID string, q bookmark.Query) (int64, error) {
	var n int64
	if err := s.scoped(ctx, userID, q).Count(&n).Error; err != nil {
		return 0, classify(err, "count bookmarks")
	}
	return n, nil
}

// Insert creates a bookmark owned by userID.
func (s *BookmarkStore) Insert(ctx context.Context, userID string, b *bookmark.Bookmark) (*bookmark.Bookmark, error) {
	row := *b
	row.User = userID
	if row.Status == "" {
		row.Status = bookmark.StatusActive
	}

	result := s.db.WithContext(ctx).Clauses(clause.Returning{}).Create(&row)
	if result.Error != nil {
		return nil, classify(result.Error, "insert bookmark")
	}
	if result.RowsAffected == 0 || row.ID == "" {
		return nil, nil
	}
	return &row, nil
}

// Update applies changes to a single row scoped by id and owner.
func (s *BookmarkStore) Update(ctx context.Context, userID, id string, changes bookmark.Changes) (*bookmark.Bookmark, error) {
	updates := make(map[string]interface{}, len(changes))
	for col, v := range changes {
		updates[col] = v
	}

	var rows []bookmark.Bookmark
	err := s.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where(`id = ? AND "user" = ?`, id, userID).
		Updates(updates).Error
	if err != nil {
		return nil, classify(err, "update bookmark")
	}
	if len(rows) == 0 {
		return nil, bookmark.ErrNotFound
	}
	return &rows[0], nil
}

// TagCounts returns every tag on the caller's active bookmarks with its usage
// count, most used first.
func (s *BookmarkStore) TagCounts(ctx context.Context, userID string) ([]bookmark.TagCount, error) {
	var counts []bookmark.TagCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT tag, COUNT(*) AS count
		FROM bookmarks, unnest(tags) AS tag
		WHERE "user" = ? AND status = 'active'
		GROUP BY tag
		ORDER BY count DESC, tag
	`, userID).Scan(&counts).Error
	if err != nil {
		return nil, classify(err, "count tags")
	}
	return counts, nil
}

// Stats gathers the overview counters shown by get_stats.
func (s *BookmarkStore) Stats(ctx context.Context, userID string) (*bookmark.Stats, error) {
	var totals struct {
		All    int64
		Stars  int64
		Public int64
		Trash  int64
		Top    int64
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'active') AS "all",
			COUNT(*) FILTER (WHERE status = 'active' AND star) AS stars,
			COUNT(*) FILTER (WHERE status = 'active' AND public) AS public,
			COUNT(*) FILTER (WHERE status = 'inactive') AS trash,
			COUNT(*) FILTER (WHERE status = 'active' AND click_count > 0) AS top
		FROM bookmarks
		WHERE "user" = ?
	`, userID).Scan(&totals).Error
	if err != nil {
		return nil, classify(err, "count bookmarks")
	}

	var types []bookmark.TypeCount
	err = s.db.WithContext(ctx).Raw(`
		SELECT type, COUNT(*) AS count
		FROM bookmarks
		WHERE "user" = ? AND status = 'active' AND type IS NOT NULL
		GROUP BY type
		ORDER BY count DESC, type
	`, userID).Scan(&types).Error
	if err != nil {
		return nil, classify(err, "count types")
	}

	tags, err := s.TagCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	collections, err := s.collectionCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &bookmark.Stats{
		All:         totals.All,
		Stars:       totals.Stars,
		Public:      totals.Public,
		Trash:       totals.Trash,
		Top:         totals.Top,
		Types:       types,
		Tags:        tags,
		Collections: collections,
	}, nil
}

// collectionCounts counts the caller's active bookmarks per collection. A
// bookmark is in a collection when it carries any of the collection's tags.
func (s *BookmarkStore) collectionCounts(ctx context.Context, userID string) ([]bookmark.CollectionCount, error) {
	var counts []bookmark.CollectionCount
	err := s.db.WithContext(ctx).
		Model(&Collection{}).
		Select(`collections.name AS collection, COUNT(DISTINCT b.id) AS bookmark_count`).
		Joins(`LEFT JOIN ` + CollectionTag{}.TableName() + ` ct ON ct.collection_id = collections.id`).
		Joins(`LEFT JOIN bookmarks b ON b."user" = collections."user" AND b.status = 'active' AND ct.tag = ANY(b.tags)`).
		Where(`collections."user" = ?`, userID).
		Group("collections.name").
		Order("collections.name").
		Find(&counts).Error
	if err != nil {
		return nil, classify(err, "count collections")
	}
	return counts, nil
}
