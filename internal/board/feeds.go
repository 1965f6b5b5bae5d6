package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sujalbistaa/unlinked/internal/markup"
	"github.com/sujalbistaa/unlinked/internal/models"
)

// Sort modes accepted by the feeds.
const (
	SortRecent    = "recent"
	SortReactions = "reactions"
	SortFeatured  = "featured"
)

// Fixed page sizes.
const (
	HomePageSize        = 10
	CategoryPageSize    = 10
	HallOfFamePageSize  = 20
	WallOfShamePageSize = 15
	homeSideBySides     = 5
)

// NormalizeSort maps anything unknown to SortRecent.
func NormalizeSort(sort string) string {
	switch sort {
	case SortReactions, SortFeatured:
		return sort
	}
	return SortRecent
}

// Page is one page of a feed.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

func newPage[T any](items []T, page, size int, total int64) Page[T] {
	pages := int((total + int64(size) - 1) / int64(size))
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Page:        page,
		PageSize:    size,
		Total:       total,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}

// RantItem is a rant as listed and shown.
type RantItem struct {
	models.Rant
	Author         string         `json:"author"`
	BodyHTML       string         `json:"bodyHtml"`
	Reactions      map[string]int `json:"reactions"`
	TotalReactions int            `json:"totalReactions"`
}

// SideBySideItem is a side-by-side as listed and shown.
type SideBySideItem struct {
	models.SideBySide
	Author         string         `json:"author"`
	Reactions      map[string]int `json:"reactions"`
	TotalReactions int            `json:"totalReactions"`
}

// GhostingItem is a ghosting story as listed and shown.
type GhostingItem struct {
	models.GhostingStory
	Author         string         `json:"author"`
	StoryHTML      string         `json:"storyHtml"`
	Reactions      map[string]int `json:"reactions"`
	TotalReactions int            `json:"totalReactions"`
}

// HomeFeed is the landing page.
type HomeFeed struct {
	Rants           Page[RantItem]    `json:"rants"`
	SideBySides     []SideBySideItem  `json:"sidebysides"`
	Categories      []models.Category `json:"categories"`
	CurrentCategory string            `json:"currentCategory"`
	CurrentSort     string            `json:"currentSort"`
}

// CategoryFeed is one category's rants.
type CategoryFeed struct {
	Category   models.Category   `json:"category"`
	Rants      Page[RantItem]    `json:"rants"`
	Categories []models.Category `json:"categories"`
}

// ShameFilter narrows the wall of shame.
type ShameFilter struct {
	Company string
	Stage   string
	Sort    string
}

// WallOfShameFeed is the ghosting stories listing.
type WallOfShameFeed struct {
	Stories        Page[GhostingItem] `json:"stories"`
	Stages         []models.Choice    `json:"stageChoices"`
	CurrentStage   string             `json:"currentStage"`
	CurrentSort    string             `json:"currentSort"`
	CurrentCompany string             `json:"currentCompany"`
}

// applySort orders an approved-items query. reactions sorting joins and counts
// the Reaction rows of the given content type.
func applySort(q *gorm.DB, table, contentType, sort string) *gorm.DB {
	switch sort {
	case SortReactions:
		return q.Select(table+".*, COUNT(reactions.id) AS reaction_count").
			Joins("LEFT JOIN reactions ON reactions.content_id = "+table+".id AND reactions.content_type = ?", contentType).
			Group(table + ".id").
			Order("reaction_count DESC").
			Order(table + ".created_at DESC")
	default:
		return q.Order(table + ".created_at DESC")
	}
}

// paginate counts the filtered query, then fetches one sorted page into dest.
// base must return a fresh query each call.
func paginate(base func() *gorm.DB, table, contentType, sort string, page, size int, dest interface{}, preload ...string) (int64, error) {
	if sort == SortFeatured {
		inner := base
		base = func() *gorm.DB { return inner().Where(table+".is_featured = ?", true) }
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, err
	}

	q := applySort(base(), table, contentType, sort)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	err := q.Offset((page - 1) * size).
		Limit(size).
		Find(dest).Error
	return total, err
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Home lists approved rants, optionally in one category, plus recent side-by-sides.
func (s *Service) Home(ctx context.Context, categorySlug, sort string, page int) (*HomeFeed, error) {
	sort = NormalizeSort(sort)
	page = normalizePage(page)

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Rant{}).Where("rants.is_approved = ?", true)
		if categorySlug != "" {
			q = q.Joins("JOIN categories ON categories.id = rants.category_id").
				Where("categories.slug = ?", categorySlug)
		}
		return q
	}

	var rants []models.Rant
	total, err := paginate(base, "rants", models.ContentRant, sort, page, HomePageSize, &rants, "Category")
	if err != nil {
		return nil, fmt.Errorf("loading home feed: %w", err)
	}
	items, err := s.rantItems(ctx, rants)
	if err != nil {
		return nil, err
	}

	var sbs []models.SideBySide
	err = s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Limit(homeSideBySides).
		Find(&sbs).Error
	if err != nil {
		return nil, fmt.Errorf("loading side-by-sides: %w", err)
	}
	sbItems, err := s.sideBySideItems(ctx, sbs)
	if err != nil {
		return nil, err
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return &HomeFeed{
		Rants:           newPage(items, page, HomePageSize, total),
		SideBySides:     sbItems,
		Categories:      cats,
		CurrentCategory: categorySlug,
		CurrentSort:     sort,
	}, nil
}

// CategoryRants lists one category's approved rants, newest first.
func (s *Service) CategoryRants(ctx context.Context, slug string, page int) (*CategoryFeed, error) {
	page = normalizePage(page)

	var cat models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, notFound(err)
	}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Rant{}).
			Where("rants.category_id = ? AND rants.is_approved = ?", cat.ID, true)
	}

	var rants []models.Rant
	total, err := paginate(base, "rants", models.ContentRant, SortRecent, page, CategoryPageSize, &rants, "Category")
	if err != nil {
		return nil, fmt.Errorf("loading category feed: %w", err)
	}
	items, err := s.rantItems(ctx, rants)
	if err != nil {
		return nil, err
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return &CategoryFeed{
		Category:   cat,
		Rants:      newPage(items, page, CategoryPageSize, total),
		Categories: cats,
	}, nil
}

// HallOfFame lists approved rants by reaction count.
func (s *Service) HallOfFame(ctx context.Context, page int) (*Page[RantItem], error) {
	page = normalizePage(page)

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Rant{}).Where("rants.is_approved = ?", true)
	}

	var rants []models.Rant
	total, err := paginate(base, "rants", models.ContentRant, SortReactions, page, HallOfFamePageSize, &rants, "Category")
	if err != nil {
		return nil, fmt.Errorf("loading hall of fame: %w", err)
	}
	items, err := s.rantItems(ctx, rants)
	if err != nil {
		return nil, err
	}

	p := newPage(items, page, HallOfFamePageSize, total)
	return &p, nil
}

// WallOfShame lists approved ghosting stories.
func (s *Service) WallOfShame(ctx context.Context, f ShameFilter, page int) (*WallOfShameFeed, error) {
	sort := NormalizeSort(f.Sort)
	page = normalizePage(page)
	company := strings.TrimSpace(f.Company)

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.GhostingStory{}).
			Where("ghosting_stories.is_approved = ?", true)
		if company != "" {
			q = q.Where("LOWER(ghosting_stories.company) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(company))+"%")
		}
		if f.Stage != "" {
			q = q.Where("ghosting_stories.stage = ?", f.Stage)
		}
		return q
	}

	var stories []models.GhostingStory
	total, err := paginate(base, "ghosting_stories", models.ContentGhosting, sort, page, WallOfShamePageSize, &stories)
	if err != nil {
		return nil, fmt.Errorf("loading wall of shame: %w", err)
	}
	items, err := s.ghostingItems(ctx, stories)
	if err != nil {
		return nil, err
	}

	return &WallOfShameFeed{
		Stories:        newPage(items, page, WallOfShamePageSize, total),
		Stages:         models.Stages,
		CurrentStage:   f.Stage,
		CurrentSort:    sort,
		CurrentCompany: company,
	}, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Service) rantItems(ctx context.Context, rants []models.Rant) ([]RantItem, error) {
	ids := make([]uuid.UUID, len(rants))
	for i, r := range rants {
		ids[i] = r.ID
	}
	counts, err := s.reactionCountsFor(ctx, models.ContentRant, ids)
	if err != nil {
		return nil, err
	}

	items := make([]RantItem, len(rants))
	for i, r := range rants {
		items[i] = RantItem{
			Rant:           r,
			Author:         r.AuthorDisplay(),
			BodyHTML:       markup.RenderOrSanitize(r.Body),
			Reactions:      counts[r.ID],
			TotalReactions: total(counts[r.ID]),
		}
	}
	return items, nil
}

func (s *Service) sideBySideItems(ctx context.Context, sbs []models.SideBySide) ([]SideBySideItem, error) {
	ids := make([]uuid.UUID, len(sbs))
	for i, sb := range sbs {
		ids[i] = sb.ID
	}
	counts, err := s.reactionCountsFor(ctx, models.ContentSideBySide, ids)
	if err != nil {
		return nil, err
	}

	items := make([]SideBySideItem, len(sbs))
	for i, sb := range sbs {
		items[i] = SideBySideItem{
			SideBySide:     sb,
			Author:         sb.AuthorDisplay(),
			Reactions:      counts[sb.ID],
			TotalReactions: total(counts[sb.ID]),
		}
	}
	return items, nil
}

func (s *Service) ghostingItems(ctx context.Context, stories []models.GhostingStory) ([]GhostingItem, error) {
	ids := make([]uuid.UUID, len(stories))
	for i, g := range stories {
		ids[i] = g.ID
	}
	counts, err := s.reactionCountsFor(ctx, models.ContentGhosting, ids)
	if err != nil {
		return nil, err
	}

	items := make([]GhostingItem, len(stories))
	for i, g := range stories {
		items[i] = GhostingItem{
			GhostingStory:  g,
			Author:         g.AuthorDisplay(),
			StoryHTML:      markup.RenderOrSanitize(g.Story),
			Reactions:      counts[g.ID],
			TotalReactions: total(counts[g.ID]),
		}
	}
	return items, nil
}
