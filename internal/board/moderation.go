package board

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Moderation actions applied in bulk by admins.
const (
	ActionApprove      = "approve"
	ActionHide         = "hide"
	ActionFeature      = "feature"
	ActionUnfeature    = "unfeature"
	ActionClearReports = "clear_reports"
)

var actionUpdates = map[string]map[string]interface{}{
	ActionApprove:      {"is_approved": true},
	ActionHide:         {"is_approved": false},
	ActionFeature:      {"is_featured": true},
	ActionUnfeature:    {"is_featured": false},
	ActionClearReports: {"is_reported": false, "report_count": 0},
}

// ReportResult is an item's report state after a report.
type ReportResult struct {
	ContentType string    `json:"contentType"`
	ContentID   uuid.UUID `json:"contentId"`
	ReportCount int       `json:"reportCount"`
}

// Report flags an item in any moderation state and bumps its report count.
// Repeated reports keep counting.
func (s *Service) Report(ctx context.Context, contentType string, id uuid.UUID) (*ReportResult, error) {
	table, err := tableFor(contentType)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Table(table).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"is_reported":  true,
			"report_count": gorm.Expr("report_count + ?", 1),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("reporting %s: %w", contentType, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	out := &ReportResult{ContentType: contentType, ContentID: id}
	err = s.db.WithContext(ctx).Table(table).
		Select("report_count").
		Where("id = ?", id).
		Scan(&out.ReportCount).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Moderate applies one bulk action to the given items and returns how many changed.
func (s *Service) Moderate(ctx context.Context, contentType, action string, ids []uuid.UUID) (int64, error) {
	model, err := modelFor(contentType)
	if err != nil {
		return 0, err
	}
	updates, ok := actionUpdates[action]
	if !ok {
		return 0, ErrInvalidAction
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Model(model).
		Where("id IN ?", ids).
		Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("moderating %s: %w", contentType, res.Error)
	}
	return res.RowsAffected, nil
}

// ReportedItem is a row of the moderators' report queue.
type ReportedItem struct {
	ID          uuid.UUID `json:"id"`
	Summary     string    `json:"summary"`
	ReportCount int       `json:"reportCount"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
}

var summaryColumn = map[string]string{
	"rants":            "title",
	"side_by_sides":    "context",
	"ghosting_stories": "company",
}

const reportQueueLimit = 100

// Reported lists reported items of one type, most reported first.
func (s *Service) Reported(ctx context.Context, contentType string) ([]ReportedItem, error) {
	table, err := tableFor(contentType)
	if err != nil {
		return nil, err
	}

	items := []ReportedItem{}
	err = s.db.WithContext(ctx).Table(table).
		Select("id, " + summaryColumn[table] + " AS summary, report_count, is_approved, created_at").
		Where("is_reported = ?", true).
		Order("report_count DESC").
		Order("created_at DESC").
		Limit(reportQueueLimit).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading reported %s: %w", contentType, err)
	}
	return items, nil
}
