package tools

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"otter/server/internal/bookmark"
)

// memStore is an in-memory bookmark.Store that enforces row ownership the
// same way the database queries do.
type memStore struct {
	mu   sync.Mutex
	rows []bookmark.Bookmark
	base time.Time

	selectErr error
	countErr  error
	insertErr error
	tagsErr   error
	updateErr error
	insertNil bool

	selects  []bookmark.Query
	inserted []bookmark.Bookmark
}

func newMemStore() *memStore {
	return &memStore{base: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// add stores b for user with a creation time that increases per row.
func (m *memStore) add(user string, b bookmark.Bookmark) bookmark.Bookmark {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.User = user
	if b.Status == "" {
		b.Status = bookmark.StatusActive
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = m.base.Add(time.Duration(len(m.rows)) * time.Hour)
	}
	b.ModifiedAt = b.CreatedAt
	m.rows = append(m.rows, b)
	return b
}

func (m *memStore) get(id string) *bookmark.Bookmark {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			row := m.rows[i]
			return &row
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func matches(b bookmark.Bookmark, user string, q bookmark.Query) bool {
	if b.User != user || b.Status != q.EffectiveStatus() {
		return false
	}
	if (q.Star && !b.Star) || (q.Public && !b.Public) {
		return false
	}
	if q.Type != "" && (b.Type == nil || *b.Type != q.Type) {
		return false
	}
	if q.Tag != "" {
		found := false
		for _, t := range b.Tags {
			found = found || t == q.Tag
		}
		if !found {
			return false
		}
	}
	if q.Text != "" {
		hay := strings.ToLower(strings.Join([]string{
			b.URL, deref(b.Title), deref(b.Description), deref(b.Note), strings.Join(b.Tags, " "),
		}, "\n"))
		if !strings.Contains(hay, strings.ToLower(q.Text)) {
			return false
		}
	}
	if q.Order == bookmark.OrderTop && b.ClickCount == 0 {
		return false
	}
	return true
}

func (m *memStore) filtered(user string, q bookmark.Query) []bookmark.Bookmark {
	var out []bookmark.Bookmark
	for _, b := range m.rows {
		if matches(b, user, q) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Order == bookmark.OrderTop && out[i].ClickCount != out[j].ClickCount {
			return out[i].ClickCount > out[j].ClickCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) Select(_ context.Context, user string, q bookmark.Query) ([]bookmark.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selects = append(m.selects, q)
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	rows := m.filtered(user, q)
	if q.Offset >= len(rows) {
		return nil, nil
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func (m *memStore) Count(_ context.Context, user string, q bookmark.Query) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.filtered(user, q))), nil
}

func (m *memStore) Insert(_ context.Context, user string, b *bookmark.Bookmark) (*bookmark.Bookmark, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.mu.Lock()
	m.inserted = append(m.inserted, *b)
	m.mu.Unlock()
	row := m.add(user, *b)
	if m.insertNil {
		return nil, nil
	}
	return &row, nil
}

func (m *memStore) Update(_ context.Context, user, id string, changes bookmark.Changes) (*bookmark.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.rows {
		b := &m.rows[i]
		if b.ID != id || b.User != user {
			continue
		}
		for col, v := range changes {
			applyChange(b, col, v)
		}
		row := *b
		return &row, nil
	}
	return nil, bookmark.ErrNotFound
}

func applyChange(b *bookmark.Bookmark, col string, v interface{}) {
	str := func() *string {
		if s, ok := v.(string); ok {
			return &s
		}
		return nil
	}
	switch col {
	case bookmark.ColTitle:
		b.Title = str()
	case bookmark.ColDescription:
		b.Description = str()
	case bookmark.ColNote:
		b.Note = str()
	case bookmark.ColTags:
		tags, _ := v.(bookmark.Tags)
		b.Tags = tags
	case bookmark.ColType:
		if s := str(); s != nil {
			t := bookmark.Type(*s)
			b.Type = &t
		} else {
			b.Type = nil
		}
	case bookmark.ColStar:
		b.Star = v.(bool)
	case bookmark.ColPublic:
		b.Public = v.(bool)
	case bookmark.ColStatus:
		b.Status = bookmark.Status(v.(string))
	case bookmark.ColModifiedAt:
		b.ModifiedAt = v.(time.Time)
	}
}

func (m *memStore) TagCounts(_ context.Context, user string) ([]bookmark.TagCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tagsErr != nil {
		return nil, m.tagsErr
	}
	counts := map[string]int64{}
	for _, b := range m.filtered(user, bookmark.Query{}) {
		for _, t := range b.Tags {
			counts[t]++
		}
	}
	out := make([]bookmark.TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, bookmark.TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

func (m *memStore) Stats(ctx context.Context, user string) (*bookmark.Stats, error) {
	tags, err := m.TagCounts(ctx, user)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &bookmark.Stats{Tags: tags}
	types := map[string]int64{}
	for _, b := range m.rows {
		if b.User != user {
			continue
		}
		if b.Status == bookmark.StatusInactive {
			s.Trash++
			continue
		}
		s.All++
		if b.Star {
			s.Stars++
		}
		if b.Public {
			s.Public++
		}
		if b.ClickCount > 0 {
			s.Top++
		}
		if b.Type != nil {
			types[string(*b.Type)]++
		}
	}
	for _, t := range bookmark.Types {
		if n := types[string(t)]; n > 0 {
			s.Types = append(s.Types, bookmark.TypeCount{Type: string(t), Count: n})
		}
	}
	return s, nil
}
