package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content type tags used in URLs and in the Reaction / ContentView discriminant.
const (
	ContentRant       = "rant"
	ContentSideBySide = "sidebyside"
	ContentGhosting   = "ghosting"
)

// ContentTypes lists every valid content type tag.
var ContentTypes = []string{ContentRant, ContentSideBySide, ContentGhosting}

// Category groups rants. Rants reference it and block its deletion.
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:10" json:"icon"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"-"`
}

// Moderation holds the flags shared by every kind of user content.
// The bool columns carry no database default: GORM skips zero values on insert
// when a default exists, which would turn an explicit false into true.
type Moderation struct {
	IsAnonymous bool   `gorm:"not null" json:"isAnonymous"`
	DisplayName string `gorm:"size:100" json:"-"`
	Email       string `gorm:"size:254" json:"-"`
	IsApproved  bool   `gorm:"not null;index" json:"-"`
	IsFeatured  bool   `gorm:"not null;default:false" json:"isFeatured"`
	IsReported  bool   `gorm:"not null;default:false" json:"-"`
	ReportCount int    `gorm:"not null;default:0" json:"-"`
}

// AuthorDisplay is the public author name.
func (m Moderation) AuthorDisplay() string {
	if m.IsAnonymous || m.DisplayName == "" {
		return "Anonymous"
	}
	return m.DisplayName
}

// Rant is a free-form markdown post in a category.
type Rant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:200" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	ShareSlug  string    `gorm:"size:12;uniqueIndex" json:"shareSlug"`
	Moderation
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the UUID and share slug.
func (r *Rant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ShareSlug == "" {
		r.ShareSlug = NewShareSlug()
	}
	return nil
}

// SideBySide compares a LinkedIn post with what actually happened.
type SideBySide struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LinkedInVersion string    `gorm:"column:linkedin_version;type:text;not null" json:"linkedinVersion"`
	RealityVersion  string    `gorm:"type:text;not null" json:"realityVersion"`
	Context         string    `gorm:"size:200" json:"context"`
	ShareSlug       string    `gorm:"size:12;uniqueIndex" json:"shareSlug"`
	Moderation
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the table name readable.
func (SideBySide) TableName() string { return "side_by_sides" }

// BeforeCreate assigns the UUID and share slug.
func (s *SideBySide) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ShareSlug == "" {
		s.ShareSlug = NewShareSlug()
	}
	return nil
}

// Ghosting platforms.
var Platforms = []Choice{
	{"linkedin", "LinkedIn"},
	{"email", "Email"},
	{"phone", "Phone"},
	{"indeed", "Indeed"},
	{"other", "Other"},
}

// Ghosting stages.
var Stages = []Choice{
	{"applied", "Just Applied"},
	{"screening", "Phone Screen"},
	{"interview", "After Interview(s)"},
	{"final", "Final Round"},
	{"offer", "Verbal Offer Stage"},
	{"other", "Other"},
}

// Choice is a code with its display label.
type Choice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ValidChoice reports whether code is one of choices.
func ValidChoice(choices []Choice, code string) bool {
	for _, c := range choices {
		if c.Code == code {
			return true
		}
	}
	return false
}

// GhostingStory is a Wall of Shame entry about a recruiter going silent.
type GhostingStory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecruiterName string    `gorm:"size:200" json:"recruiterName"`
	Company       string    `gorm:"size:200;not null;index" json:"company"`
	Platform      string    `gorm:"size:20;not null;default:'linkedin'" json:"platform"`
	Stage         string    `gorm:"size:20;not null;default:'applied'" json:"stage"`
	Story         string    `gorm:"type:text;not null" json:"story"`
	Moderation
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the table name readable.
func (GhostingStory) TableName() string { return "ghosting_stories" }

// BeforeCreate assigns the UUID.
func (g *GhostingStory) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// ReactionType is one of the fixed anti-LinkedIn reactions.
type ReactionType struct {
	Code  string `json:"code"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// ReactionTypes is the fixed, ordered reaction enumeration.
var ReactionTypes = []ReactionType{
	{"drink", "🍷", "This is why I drink"},
	{"dead", "💀", "Dead inside"},
	{"felt", "🤝", "Felt that"},
	{"rage", "😤", "Rage"},
	{"peak", "🎭", "Peak LinkedIn"},
	{"clap", "👏", "Slow clap"},
}

// ValidReaction reports whether code names a reaction type.
func ValidReaction(code string) bool {
	for _, rt := range ReactionTypes {
		if rt.Code == code {
			return true
		}
	}
	return false
}

// Reaction is one session's emoji on one content item.
// At most one row exists per (content type, content id, session, reaction type).
type Reaction struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ContentType  string    `gorm:"size:20;not null;uniqueIndex:idx_reaction_once,priority:1;index:idx_reaction_target,priority:1" json:"contentType"`
	ContentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_once,priority:2;index:idx_reaction_target,priority:2" json:"contentId"`
	SessionKey   string    `gorm:"size:100;not null;uniqueIndex:idx_reaction_once,priority:3" json:"-"`
	ReactionType string    `gorm:"size:20;not null;uniqueIndex:idx_reaction_once,priority:4" json:"reactionType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ContentView records one visit to a detail or share page.
type ContentView struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ContentType string    `gorm:"size:20;not null;index:idx_view_target,priority:1" json:"contentType"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_view_target,priority:2" json:"contentId"`
	Referrer    string    `gorm:"size:100" json:"referrer"`
	Timestamp   time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// Translation modes.
const (
	ModeToLinkedIn = "to_linkedin"
	ModeToReality  = "to_reality"
)

// ModeDisplay is the button label for a translation mode.
func ModeDisplay(mode string) string {
	if mode == ModeToLinkedIn {
		return "Make it LinkedIn"
	}
	return "Make it Real"
}

// Translation is a saved translator result reachable through its share slug.
type Translation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OriginalText   string    `gorm:"type:text;not null" json:"originalText"`
	TranslatedText string    `gorm:"type:text;not null" json:"translatedText"`
	Mode           string    `gorm:"size:20;not null;index" json:"mode"`
	ShareSlug      string    `gorm:"size:12;not null;uniqueIndex" json:"shareSlug"`
	ViewCount      int       `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
}

// BeforeCreate assigns the UUID and, if absent, a share slug.
func (t *Translation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.ShareSlug == "" {
		t.ShareSlug = NewShareSlug()
	}
	return nil
}

// NewShareSlug returns 11 URL-safe characters from 8 random bytes.
func NewShareSlug() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
