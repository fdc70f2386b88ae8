package migrations

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Run applies the projects schema to PostgreSQL.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&projectRecord{})
}

// Project schema mirrors the projects Postgres adapter.
type projectRecord struct {
	ID              int64      `gorm:"primaryKey;autoIncrement:false;column:id"`
	Name            string     `gorm:"column:name;not null"`
	Description     *string    `gorm:"column:description"`
	URL             string     `gorm:"column:url;not null"`
	Homepage        *string    `gorm:"column:homepage"`
	Language        *string    `gorm:"column:language"`
	Stars           int        `gorm:"column:stars;not null;default:0"`
	Topics          string     `gorm:"column:topics;type:text"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	GitHubUpdatedAt *time.Time `gorm:"column:github_updated_at"`
	Featured        bool       `gorm:"column:is_featured;not null;default:false;index"`
	DisplayOrder    int        `gorm:"column:display_order;not null;default:0"`
}

func (projectRecord) TableName() string { return "projects" }

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    url TEXT NOT NULL,
    homepage TEXT,
    language TEXT,
    stars INTEGER NOT NULL DEFAULT 0,
    topics TEXT,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    github_updated_at TEXT,
    is_featured INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_projects_featured ON projects(is_featured);
`

// RunSQLite creates the projects table in SQLite when it does not exist yet.
func RunSQLite(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return nil
	}
	_, err := db.ExecContext(ctx, sqliteSchema)
	return err
}
