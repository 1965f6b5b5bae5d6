package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sujalbistaa/unlinked/internal/db"
	"github.com/sujalbistaa/unlinked/internal/models"
)

// ToggleResult is the state of one reaction after a toggle.
type ToggleResult struct {
	ContentType  string         `json:"contentType"`
	ContentID    uuid.UUID      `json:"contentId"`
	ReactionType string         `json:"reactionType"`
	Active       bool           `json:"isActive"`
	Counts       map[string]int `json:"counts"`
}

// Count is the number of reactions of the toggled type.
func (r *ToggleResult) Count() int {
	return r.Counts[r.ReactionType]
}

// ToggleReaction flips one session's reaction on an approved item.
// An existing reaction is removed, a missing one is created.
func (s *Service) ToggleReaction(ctx context.Context, contentType string, id uuid.UUID, reactionType, sessionKey string) (*ToggleResult, error) {
	if !models.ValidReaction(reactionType) {
		return nil, ErrInvalidReaction
	}
	if err := s.requireApproved(ctx, contentType, id); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)

	res := tx.Where("content_type = ? AND content_id = ? AND session_key = ? AND reaction_type = ?",
		contentType, id, sessionKey, reactionType).
		Delete(&models.Reaction{})
	if res.Error != nil {
		return nil, fmt.Errorf("removing reaction: %w", res.Error)
	}

	active := false
	if res.RowsAffected == 0 {
		reaction := models.Reaction{
			ContentType:  contentType,
			ContentID:    id,
			SessionKey:   sessionKey,
			ReactionType: reactionType,
		}
		err := tx.Create(&reaction).Error
		switch {
		case err == nil, db.IsUniqueViolation(err):
			// A concurrent toggle inserted the same row first; it is active either way.
			active = true
		default:
			return nil, fmt.Errorf("adding reaction: %w", err)
		}
	}

	counts, err := s.ReactionCounts(ctx, contentType, id)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{
		ContentType:  contentType,
		ContentID:    id,
		ReactionType: reactionType,
		Active:       active,
		Counts:       counts,
	}, nil
}

// emptyCounts has a zero entry for every reaction type.
func emptyCounts() map[string]int {
	counts := make(map[string]int, len(models.ReactionTypes))
	for _, rt := range models.ReactionTypes {
		counts[rt.Code] = 0
	}
	return counts
}

// ReactionCounts returns the per-type reaction counts for one item.
func (s *Service) ReactionCounts(ctx context.Context, contentType string, id uuid.UUID) (map[string]int, error) {
	var rows []struct {
		ReactionType string
		N            int
	}
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) AS n").
		Where("content_type = ? AND content_id = ?", contentType, id).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting reactions: %w", err)
	}

	counts := emptyCounts()
	for _, r := range rows {
		counts[r.ReactionType] = r.N
	}
	return counts, nil
}

// reactionCountsFor counts reactions for many items of one type in a single query.
func (s *Service) reactionCountsFor(ctx context.Context, contentType string, ids []uuid.UUID) (map[uuid.UUID]map[string]int, error) {
	out := make(map[uuid.UUID]map[string]int, len(ids))
	for _, id := range ids {
		out[id] = emptyCounts()
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ContentID    uuid.UUID
		ReactionType string
		N            int
	}
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("content_id, reaction_type, COUNT(*) AS n").
		Where("content_type = ? AND content_id IN ?", contentType, ids).
		Group("content_id, reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting reactions: %w", err)
	}

	for _, r := range rows {
		if counts, ok := out[r.ContentID]; ok {
			counts[r.ReactionType] = r.N
		}
	}
	return out, nil
}

// SessionReactions lists the reaction codes a session has active on an item.
func (s *Service) SessionReactions(ctx context.Context, contentType string, id uuid.UUID, sessionKey string) ([]string, error) {
	codes := []string{}
	if sessionKey == "" {
		return codes, nil
	}
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("content_type = ? AND content_id = ? AND session_key = ?", contentType, id, sessionKey).
		Order("reaction_type").
		Pluck("reaction_type", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("loading session reactions: %w", err)
	}
	return codes, nil
}

func total(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
