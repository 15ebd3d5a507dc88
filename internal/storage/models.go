package storage

import (
	"time"
)

// DocumentModel is the database row for a single cached roadmap source
// document: the last content fetched from GitHub, the ETag it arrived
// with, and when it was last rebuilt into a Roadline.
type DocumentModel struct {
	SourceKey  string `gorm:"type:varchar(512);primary_key"` // owner/repo/path@ref
	Content    string `gorm:"type:text;not null"`
	ETag       string `gorm:"type:varchar(255)"`
	TaskCount  int    `gorm:"not null;default:0"`
	FetchedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	RebuiltAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for DocumentModel.
func (DocumentModel) TableName() string {
	return "documents"
}

// Document is the storage-independent view of a cached source document.
type Document struct {
	SourceKey string
	Content   string
	ETag      string
	TaskCount int
	FetchedAt time.Time
	RebuiltAt time.Time
}

// ToDocument converts a DocumentModel to a Document.
func (d *DocumentModel) ToDocument() *Document {
	return &Document{
		SourceKey: d.SourceKey,
		Content:   d.Content,
		ETag:      d.ETag,
		TaskCount: d.TaskCount,
		FetchedAt: d.FetchedAt,
		RebuiltAt: d.RebuiltAt,
	}
}

// FromDocument converts a Document to a DocumentModel.
func FromDocument(d *Document) *DocumentModel {
	return &DocumentModel{
		SourceKey: d.SourceKey,
		Content:   d.Content,
		ETag:      d.ETag,
		TaskCount: d.TaskCount,
		FetchedAt: d.FetchedAt,
		RebuiltAt: d.RebuiltAt,
	}
}
