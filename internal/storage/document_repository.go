package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Upsert inserts doc, or replaces the row with the same SourceKey if one
// already exists.
func (r *documentRepository) Upsert(ctx context.Context, doc *Document) error {
	model := FromDocument(doc)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_key"}},
		UpdateAll: true,
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, sourceKey string) (*Document, error) {
	var model DocumentModel
	if err := r.db.WithContext(ctx).Where("source_key = ?", sourceKey).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document not found: %s: %w", sourceKey, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return model.ToDocument(), nil
}

func (r *documentRepository) List(ctx context.Context, filters DocumentFilters) ([]*Document, error) {
	query := r.db.WithContext(ctx).Model(&DocumentModel{})

	if filters.RebuiltAfter != nil {
		query = query.Where("rebuilt_at > ?", *filters.RebuiltAfter)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var models []DocumentModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*Document, len(models))
	for i, model := range models {
		docs[i] = model.ToDocument()
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, sourceKey string) error {
	if err := r.db.WithContext(ctx).Delete(&DocumentModel{}, "source_key = ?", sourceKey).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
