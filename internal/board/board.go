// Package board implements the moderated content board: rants, side-by-sides,
// ghosting stories, their reactions, reports and feeds.
package board

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/models"
)

var (
	ErrNotFound           = errors.New("content not found")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidReaction    = errors.New("invalid reaction type")
	ErrInvalidAction      = errors.New("invalid moderation action")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrCategoryInUse      = errors.New("category still has rants")
)

// CategoryCache keeps the category list out of the database between requests.
type CategoryCache interface {
	Categories(ctx context.Context) ([]models.Category, bool)
	StoreCategories(ctx context.Context, cats []models.Category)
	InvalidateCategories(ctx context.Context)
}

// Service runs board queries and writes against the database.
type Service struct {
	db    *gorm.DB
	cache CategoryCache
}

// NewService returns a board service. cache may be nil.
func NewService(db *gorm.DB, cache CategoryCache) *Service {
	return &Service{db: db, cache: cache}
}

// tableFor maps a content type tag to its table.
func tableFor(contentType string) (string, error) {
	switch contentType {
	case models.ContentRant:
		return "rants", nil
	case models.ContentSideBySide:
		return "side_by_sides", nil
	case models.ContentGhosting:
		return "ghosting_stories", nil
	}
	return "", ErrInvalidContentType
}

// CheckContentType returns ErrInvalidContentType for an unknown tag.
func CheckContentType(contentType string) error {
	_, err := tableFor(contentType)
	return err
}

// modelFor returns an empty model pointer for a content type tag.
func modelFor(contentType string) (interface{}, error) {
	switch contentType {
	case models.ContentRant:
		return &models.Rant{}, nil
	case models.ContentSideBySide:
		return &models.SideBySide{}, nil
	case models.ContentGhosting:
		return &models.GhostingStory{}, nil
	}
	return nil, ErrInvalidContentType
}

// requireApproved returns ErrNotFound unless the item exists and is approved.
func (s *Service) requireApproved(ctx context.Context, contentType string, id uuid.UUID) error {
	table, err := tableFor(contentType)
	if err != nil {
		return err
	}
	var n int64
	err = s.db.WithContext(ctx).Table(table).
		Where("id = ? AND is_approved = ?", id, true).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
