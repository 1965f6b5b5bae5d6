package translator

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/db"
	"github.com/sujalbistaa/unlinked/internal/models"
)

// ErrNotFound means no translation has the requested share slug.
var ErrNotFound = errors.New("translation not found")

const (
	maxSlugAttempts = 5
	RecentPageSize  = 20
)

// Store persists translations for sharing.
type Store struct {
	db *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Save stores a successful translation under a fresh share slug,
// drawing a new slug when one collides.
func (s *Store) Save(ctx context.Context, original, mode string, res *Result) (*models.Translation, error) {
	var t models.Translation
	var err error
	for i := 0; i < maxSlugAttempts; i++ {
		t = models.Translation{
			OriginalText:   original,
			TranslatedText: res.Translation,
			Mode:           mode,
		}
		err = s.db.WithContext(ctx).Create(&t).Error
		if !db.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetBySlugAndCountView increments the view counter and returns the row.
func (s *Store) GetBySlugAndCountView(ctx context.Context, slug string) (*models.Translation, error) {
	var t models.Translation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Translation{}).
			Where("share_slug = ?", slug).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("share_slug = ?", slug).First(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Recent returns one page of translations, newest first, and the total count.
func (s *Store) Recent(ctx context.Context, page int) ([]models.Translation, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Translation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Translation
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(RecentPageSize).
		Offset((page - 1) * RecentPageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
