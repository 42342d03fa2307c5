// Package bookmark holds the bookmark entity and the store capability the
// MCP tools run against.
package bookmark

import (
	"context"
	"database/sql/driver"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned by Store.Update when no row matches both the id and
// the owning user.
var ErrNotFound = errors.New("bookmark not found")

// Type is the closed set of bookmark kinds.
type Type string

const (
	TypeLink     Type = "link"
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeRecipe   Type = "recipe"
	TypeImage    Type = "image"
	TypeDocument Type = "document"
	TypeArticle  Type = "article"
	TypeGame     Type = "game"
	TypeBook     Type = "book"
	TypeEvent    Type = "event"
	TypeProduct  Type = "product"
	TypeNote     Type = "note"
	TypeFile     Type = "file"
	TypePlace    Type = "place"
)

// Types lists every valid Type in display order.
var Types = []Type{
	TypeLink, TypeVideo, TypeAudio, TypeRecipe, TypeImage, TypeDocument, TypeArticle,
	TypeGame, TypeBook, TypeEvent, TypeProduct, TypeNote, TypeFile, TypePlace,
}

// Valid reports whether t is one of Types.
func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// TypeNames returns Types as plain strings (for schema enums).
func TypeNames() []string {
	out := make([]string, len(Types))
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}

// Status is the soft-delete state of a bookmark.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is active or inactive.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Tags maps a Go string slice onto a Postgres text[] column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	buf, err := pgtype.NewMap().Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, []string(t), nil)
	if err != nil {
		return nil, errors.Wrap(err, "encode tags")
	}
	return string(buf), nil
}

func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	var out []string
	if err := pgtype.NewMap().SQLScanner(&out).Scan(src); err != nil {
		return errors.Wrap(err, "scan tags")
	}
	*t = Tags(out)
	return nil
}

// Bookmark is a row of the bookmarks table.
type Bookmark struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	URL         string    `gorm:"column:url;type:text;not null" json:"url"`
	Title       *string   `gorm:"type:text" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Note        *string   `gorm:"type:text" json:"note"`
	Image       *string   `gorm:"type:text" json:"image"`
	Feed        *string   `gorm:"type:text" json:"feed"`
	Tags        Tags      `gorm:"type:text[]" json:"tags"`
	Type        *Type     `gorm:"type:text" json:"type"`
	Star        bool      `gorm:"not null;default:false" json:"star"`
	Public      bool      `gorm:"not null;default:false" json:"public"`
	Status      Status    `gorm:"type:text;not null;default:'active'" json:"status"`
	ClickCount  int       `gorm:"column:click_count;not null;default:0" json:"click_count"`
	User        string    `gorm:"column:user;type:uuid;not null" json:"user"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	ModifiedAt  time.Time `gorm:"column:modified_at;autoCreateTime" json:"modified_at"`
}

func (Bookmark) TableName() string { return "bookmarks" }

// Order selects the row ordering of a Query.
type Order int

const (
	// OrderNewest sorts by creation time, newest first.
	OrderNewest Order = iota
	// OrderTop keeps only clicked bookmarks, most clicked first.
	OrderTop
)

// Filter narrows a query to a subset of the caller's bookmarks.
// The zero value selects every active bookmark.
type Filter struct {
	Status Status // empty means active
	Star   bool   // only starred
	Public bool   // only public
	Tag    string // tags contains Tag
	Type   Type
}

// EffectiveStatus returns the status the filter selects.
func (f Filter) EffectiveStatus() Status {
	if f.Status == "" {
		return StatusActive
	}
	return f.Status
}

// Query is a filtered, ordered, ranged selection. Count ignores Offset and Limit.
type Query struct {
	Filter
	Text   string // case-insensitive match across title, url, description, note and tags
	Order  Order
	Offset int
	Limit  int
}

// Column names accepted in Changes.
const (
	ColTitle       = "title"
	ColDescription = "description"
	ColNote        = "note"
	ColTags        = "tags"
	ColType        = "type"
	ColStar        = "star"
	ColPublic      = "public"
	ColStatus      = "status"
	ColModifiedAt  = "modified_at"
)

// Changes is a set of column assignments for Store.Update. A nil value
// clears a nullable column.
type Changes map[string]interface{}

// TagCount is one row of the per-user tag usage listing.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TypeCount is the number of active bookmarks of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// CollectionCount is the number of active bookmarks in one collection.
type CollectionCount struct {
	Collection    string `json:"collection"`
	BookmarkCount int64  `json:"bookmark_count"`
}

// Stats is the aggregate overview returned by get_stats.
type Stats struct {
	All         int64             `json:"all"`
	Stars       int64             `json:"stars"`
	Public      int64             `json:"public"`
	Trash       int64             `json:"trash"`
	Top         int64             `json:"top"`
	Types       []TypeCount       `json:"types"`
	Tags        []TagCount        `json:"tags"`
	Collections []CollectionCount `json:"collections"`
}

// Store is the set of row-scoped operations the tools need. Every method
// takes the owning user explicitly and must never touch another user's rows.
type Store interface {
	Select(ctx context.Context, userID string, q Query) ([]Bookmark, error)
	Count(ctx context.Context, userID string, q Query) (int64, error)
	// Insert stores b for userID and returns the persisted row, or nil when
	// the store reported success without returning one.
	Insert(ctx context.Context, userID string, b *Bookmark) (*Bookmark, error)
	// Update applies changes to the row matching id and userID and returns
	// the updated row. It returns ErrNotFound when no such row exists.
	Update(ctx context.Context, userID, id string, changes Changes) (*Bookmark, error)
	TagCounts(ctx context.Context, userID string) ([]TagCount, error)
	Stats(ctx context.Context, userID string) (*Stats, error)
}
