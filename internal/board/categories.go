package board

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/sujalbistaa/unlinked/internal/db"
	"github.com/sujalbistaa/unlinked/internal/models"
)

// Categories returns every category ordered by sort order then name.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		if cats, ok := s.cache.Categories(ctx); ok {
			return cats, nil
		}
	}

	cats := []models.Category{}
	if err := s.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	if s.cache != nil {
		s.cache.StoreCategories(ctx, cats)
	}
	return cats, nil
}

// CategoryInput is a new category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Order       int
}

// CreateCategory stores a category, deriving the slug from the name when empty.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: name has no usable slug characters", ErrInvalidInput)
	}

	cat := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		Order:       in.Order,
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q already exists", ErrInvalidInput, slug)
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.invalidateCategories(ctx)
	return &cat, nil
}

// DeleteCategory removes a category that no rant references.
func (s *Service) DeleteCategory(ctx context.Context, slug string) error {
	var cat models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&cat).Error; err != nil {
		return notFound(err)
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Rant{}).Where("category_id = ?", cat.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}

	if err := s.db.WithContext(ctx).Delete(&cat).Error; err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	s.invalidateCategories(ctx)
	return nil
}

func (s *Service) invalidateCategories(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCategories(ctx)
	}
}

// Slugify lower-cases s and joins its letter/digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
