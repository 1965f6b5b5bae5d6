package db

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/unlinked/internal/models"
)

// Init opens a GORM connection for the given DATABASE_URL.
// URLs starting with postgres:// go to Postgres, sqlite:// to a local SQLite file.
func Init(dbURL string) (*gorm.DB, error) {
	if dbURL == "" {
		dbURL = "sqlite://unlinked.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://unlinked.db'")
	}

	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dbURL, "postgres://"):
		// pgx accepts the URL form as-is.
		dialector = postgres.Open(dbURL)
		log.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		log.Println("Connecting to SQLite database at", dsn)
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL prefix: must start with 'postgres://' or 'sqlite://'")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Database connection established.")
	return db, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	tables := []struct {
		model interface{}
		name  string
	}{
		{&models.Category{}, "Category"},
		{&models.Rant{}, "Rant"},
		{&models.SideBySide{}, "SideBySide"},
		{&models.GhostingStory{}, "GhostingStory"},
		{&models.Reaction{}, "Reaction"},
		{&models.ContentView{}, "ContentView"},
		{&models.Translation{}, "Translation"},
	}

	for _, t := range tables {
		if err := db.AutoMigrate(t.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", t.name, err)
		}
	}
	return nil
}

// DefaultCategories is what SeedCategories inserts into an empty table.
var DefaultCategories = []models.Category{
	{Name: "Recruiter Rants", Slug: "recruiters", Icon: "📞", Order: 1},
	{Name: "Hustle Culture", Slug: "hustle-culture", Icon: "🔥", Order: 2},
	{Name: "Thought Leaders", Slug: "thought-leaders", Icon: "🧠", Order: 3},
	{Name: "Humble Brags", Slug: "humble-brags", Icon: "🏆", Order: 4},
	{Name: "Interview Horror", Slug: "interview-horror", Icon: "👻", Order: 5},
	{Name: "Other", Slug: "other", Icon: "💬", Order: 99},
}

// SeedCategories inserts DefaultCategories when no category exists yet.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cats := make([]models.Category, len(DefaultCategories))
	copy(cats, DefaultCategories)
	if err := db.Create(&cats).Error; err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	log.Printf("Seeded %d categories", len(cats))
	return nil
}

// IsUniqueViolation reports whether err came from a unique index rejecting a row.
// TranslateError covers the drivers that support it; the message checks cover the rest.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique failed")
}
