package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sujalbistaa/unlinked/internal/db"
	"github.com/sujalbistaa/unlinked/internal/models"
)

// Author is the optional identity a submitter attaches.
type Author struct {
	IsAnonymous bool
	DisplayName string
	Email       string
}

// moderation builds the initial flags. Content is approved on submit;
// a named post without a name falls back to anonymous.
func (a Author) moderation() models.Moderation {
	name := strings.TrimSpace(a.DisplayName)
	anon := a.IsAnonymous || name == ""
	return models.Moderation{
		IsAnonymous: anon,
		DisplayName: name,
		Email:       strings.TrimSpace(a.Email),
		IsApproved:  true,
	}
}

// RantInput is a new rant submission.
type RantInput struct {
	Title        string
	Body         string
	CategorySlug string
	Author       Author
}

// SideBySideInput is a new side-by-side submission.
type SideBySideInput struct {
	Context         string
	LinkedInVersion string
	RealityVersion  string
	Author          Author
}

// GhostingInput is a new wall of shame submission.
type GhostingInput struct {
	RecruiterName string
	Company       string
	Platform      string
	Stage         string
	Story         string
	Author        Author
}

const maxSlugAttempts = 5

// CreateRant stores a rant in an existing category.
func (s *Service) CreateRant(ctx context.Context, in RantInput) (*models.Rant, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}

	var cat models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", in.CategorySlug).First(&cat).Error; err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	var rant models.Rant
	err := retrySlug(func() error {
		rant = models.Rant{
			Title:      strings.TrimSpace(in.Title),
			Body:       body,
			CategoryID: cat.ID,
			Moderation: in.Author.moderation(),
		}
		return s.db.WithContext(ctx).Create(&rant).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating rant: %w", err)
	}
	rant.Category = &cat
	return &rant, nil
}

// CreateSideBySide stores a LinkedIn-vs-reality comparison.
func (s *Service) CreateSideBySide(ctx context.Context, in SideBySideInput) (*models.SideBySide, error) {
	li := strings.TrimSpace(in.LinkedInVersion)
	re := strings.TrimSpace(in.RealityVersion)
	if li == "" || re == "" {
		return nil, fmt.Errorf("%w: both versions are required", ErrInvalidInput)
	}

	var sb models.SideBySide
	err := retrySlug(func() error {
		sb = models.SideBySide{
			Context:         strings.TrimSpace(in.Context),
			LinkedInVersion: li,
			RealityVersion:  re,
			Moderation:      in.Author.moderation(),
		}
		return s.db.WithContext(ctx).Create(&sb).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating side-by-side: %w", err)
	}
	return &sb, nil
}

// CreateGhostingStory stores a wall of shame entry.
func (s *Service) CreateGhostingStory(ctx context.Context, in GhostingInput) (*models.GhostingStory, error) {
	company := strings.TrimSpace(in.Company)
	story := strings.TrimSpace(in.Story)
	if company == "" || story == "" {
		return nil, fmt.Errorf("%w: company and story are required", ErrInvalidInput)
	}

	platform := in.Platform
	if platform == "" {
		platform = "linkedin"
	}
	stage := in.Stage
	if stage == "" {
		stage = "applied"
	}
	if !models.ValidChoice(models.Platforms, platform) {
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, platform)
	}
	if !models.ValidChoice(models.Stages, stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}

	g := models.GhostingStory{
		RecruiterName: strings.TrimSpace(in.RecruiterName),
		Company:       company,
		Platform:      platform,
		Stage:         stage,
		Story:         story,
		Moderation:    in.Author.moderation(),
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, fmt.Errorf("creating ghosting story: %w", err)
	}
	return &g, nil
}

// retrySlug reruns create while it fails on a unique index, which for a fresh
// UUID can only be the share slug.
func retrySlug(create func() error) error {
	var err error
	for i := 0; i < maxSlugAttempts; i++ {
		err = create()
		if !db.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}

// RantDetail is a single approved rant with this session's reactions.
type RantDetail struct {
	RantItem
	UserReactions []string `json:"userReactions"`
}

// SideBySideDetail is a single approved side-by-side with this session's reactions.
type SideBySideDetail struct {
	SideBySideItem
	UserReactions []string `json:"userReactions"`
}

// GhostingDetail is a single approved ghosting story with this session's reactions.
type GhostingDetail struct {
	GhostingItem
	UserReactions []string `json:"userReactions"`
}

// Rant loads an approved rant by id.
func (s *Service) Rant(ctx context.Context, id uuid.UUID, sessionKey string) (*RantDetail, error) {
	return s.rantWhere(ctx, "id = ?", id, sessionKey)
}

// RantBySlug loads an approved rant by share slug.
func (s *Service) RantBySlug(ctx context.Context, slug, sessionKey string) (*RantDetail, error) {
	return s.rantWhere(ctx, "share_slug = ?", slug, sessionKey)
}

func (s *Service) rantWhere(ctx context.Context, cond string, arg interface{}, sessionKey string) (*RantDetail, error) {
	var r models.Rant
	err := s.db.WithContext(ctx).Preload("Category").
		Where(cond, arg).
		Where("is_approved = ?", true).
		First(&r).Error
	if err != nil {
		return nil, notFound(err)
	}

	items, err := s.rantItems(ctx, []models.Rant{r})
	if err != nil {
		return nil, err
	}
	mine, err := s.SessionReactions(ctx, models.ContentRant, r.ID, sessionKey)
	if err != nil {
		return nil, err
	}
	return &RantDetail{RantItem: items[0], UserReactions: mine}, nil
}

// SideBySide loads an approved side-by-side by id.
func (s *Service) SideBySide(ctx context.Context, id uuid.UUID, sessionKey string) (*SideBySideDetail, error) {
	return s.sideBySideWhere(ctx, "id = ?", id, sessionKey)
}

// SideBySideBySlug loads an approved side-by-side by share slug.
func (s *Service) SideBySideBySlug(ctx context.Context, slug, sessionKey string) (*SideBySideDetail, error) {
	return s.sideBySideWhere(ctx, "share_slug = ?", slug, sessionKey)
}

func (s *Service) sideBySideWhere(ctx context.Context, cond string, arg interface{}, sessionKey string) (*SideBySideDetail, error) {
	var sb models.SideBySide
	err := s.db.WithContext(ctx).
		Where(cond, arg).
		Where("is_approved = ?", true).
		First(&sb).Error
	if err != nil {
		return nil, notFound(err)
	}

	items, err := s.sideBySideItems(ctx, []models.SideBySide{sb})
	if err != nil {
		return nil, err
	}
	mine, err := s.SessionReactions(ctx, models.ContentSideBySide, sb.ID, sessionKey)
	if err != nil {
		return nil, err
	}
	return &SideBySideDetail{SideBySideItem: items[0], UserReactions: mine}, nil
}

// GhostingStory loads an approved ghosting story by id.
func (s *Service) GhostingStory(ctx context.Context, id uuid.UUID, sessionKey string) (*GhostingDetail, error) {
	var g models.GhostingStory
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_approved = ?", id, true).
		First(&g).Error
	if err != nil {
		return nil, notFound(err)
	}

	items, err := s.ghostingItems(ctx, []models.GhostingStory{g})
	if err != nil {
		return nil, err
	}
	mine, err := s.SessionReactions(ctx, models.ContentGhosting, g.ID, sessionKey)
	if err != nil {
		return nil, err
	}
	return &GhostingDetail{GhostingItem: items[0], UserReactions: mine}, nil
}

const maxReferrerLen = 100

// RecordView stores one page visit. The referrer is truncated to fit.
func (s *Service) RecordView(ctx context.Context, contentType string, id uuid.UUID, referrer string) error {
	if _, err := tableFor(contentType); err != nil {
		return err
	}
	if len(referrer) > maxReferrerLen {
		referrer = referrer[:maxReferrerLen]
		// Drop a rune split by the cut.
		referrer = strings.ToValidUTF8(referrer, "")
	}
	view := models.ContentView{
		ContentType: contentType,
		ContentID:   id,
		Referrer:    referrer,
	}
	if err := s.db.WithContext(ctx).Create(&view).Error; err != nil {
		return fmt.Errorf("recording view: %w", err)
	}
	return nil
}

// ViewCount returns how many visits an item has had.
func (s *Service) ViewCount(ctx context.Context, contentType string, id uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ContentView{}).
		Where("content_type = ? AND content_id = ?", contentType, id).
		Count(&n).Error
	return n, err
}
