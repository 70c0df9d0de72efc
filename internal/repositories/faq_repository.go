package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
)

type FaqRepositoryInterface interface {
	ListAll(ctx context.Context) ([]db_models.Faq, error)
	FindByID(ctx context.Context, id string) (*db_models.Faq, error)
	UpsertByQuestion(ctx context.Context, faq *db_models.Faq) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type FaqRepository struct {
	db *gorm.DB
}

func NewFaqRepository(db *gorm.DB) FaqRepositoryInterface {
	return &FaqRepository{db: db}
}

func (f FaqRepository) ListAll(ctx context.Context) ([]db_models.Faq, error) {
	var faqs []db_models.Faq
	if err := f.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

func (f FaqRepository) FindByID(ctx context.Context, id string) (*db_models.Faq, error) {
	canonical, ok := canonicalID(id)
	if !ok {
		return nil, nil
	}
	var faq db_models.Faq
	err := f.db.WithContext(ctx).Where("id = ?", canonical).First(&faq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &faq, nil
}

func (f FaqRepository) UpsertByQuestion(ctx context.Context, faq *db_models.Faq) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db_models.Faq
		err := tx.Where("question = ?", faq.Question).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(faq).Error
		case err != nil:
			return err
		}
		faq.ID = existing.ID
		faq.CreatedAt = existing.CreatedAt
		return tx.Save(faq).Error
	})
}

func (f FaqRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := f.db.WithContext(ctx).Model(&db_models.Faq{}).Count(&n).Error
	return n, err
}

func (f FaqRepository) DeleteAll(ctx context.Context) error {
	return f.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&db_models.Faq{}).Error
}
