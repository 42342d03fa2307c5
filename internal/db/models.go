package db

import "time"

// Collection groups bookmarks by a set of tags. A bookmark belongs to a
// collection when it carries at least one of the collection's tags.
type Collection struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	User      string    `gorm:"column:user;type:uuid;not null" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (Collection) TableName() string { return "collections" }

// CollectionTag assigns a tag to a collection.
type CollectionTag struct {
	CollectionID string `gorm:"primaryKey;type:uuid" json:"collection_id"`
	Tag          string `gorm:"primaryKey;type:text" json:"tag"`
}

func (CollectionTag) TableName() string { return "collection_tags" }
