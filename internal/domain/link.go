package domain

import "time"

// Link binds a short code to its target URL and carries click accounting.
// Only Clicks and LastClickedAt change after creation.
type Link struct {
	ID            string     `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	Code          string     `gorm:"column:code;size:8;not null;uniqueIndex:idx_links_code" json:"code"`
	Target        string     `gorm:"column:target;type:text;not null" json:"target"`
	Clicks        int64      `gorm:"column:clicks;not null" json:"clicks"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;index:idx_links_created_at" json:"created_at"`
	LastClickedAt *time.Time `gorm:"column:last_clicked_at" json:"last_clicked_at"`
}

// TableName возвращает название таблицы для GORM
func (Link) TableName() string {
	return "links"
}

// Clone returns a copy that shares no memory with l.
func (l *Link) Clone() *Link {
	c := *l
	if l.LastClickedAt != nil {
		t := *l.LastClickedAt
		c.LastClickedAt = &t
	}
	return &c
}
