package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists projects in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and applies the schema via migrations.Run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// projectRecord maps the project aggregate to the projects table.
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

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record projectRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Insert(ctx context.Context, project *domain.Project) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if project == nil {
		return errors.New("project is nil")
	}
	record := toRecord(project)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) Update(ctx context.Context, project *domain.Project) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if project == nil {
		return errors.New("project is nil")
	}
	record := toRecord(project)
	result := r.db.WithContext(ctx).
		Model(&projectRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"name":              record.Name,
			"description":       record.Description,
			"url":               record.URL,
			"homepage":          record.Homepage,
			"language":          record.Language,
			"stars":             record.Stars,
			"topics":            record.Topics,
			"updated_at":        record.UpdatedAt,
			"github_updated_at": record.GitHubUpdatedAt,
			"is_featured":       record.Featured,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ReconcileFeatured runs the clear-then-set pass in a single transaction.
// UpdateColumn keeps GORM from stamping updated_at on flag changes.
func (r *Repository) ReconcileFeatured(ctx context.Context, ids []int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&projectRecord{}).
			Where("is_featured = ?", true).
			UpdateColumn("is_featured", false).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&projectRecord{}).
			Where("id IN ?", ids).
			UpdateColumn("is_featured", true).Error
	})
}

func (r *Repository) ListFeatured(ctx context.Context) ([]*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []projectRecord
	if err := r.db.WithContext(ctx).
		Where("is_featured = ?", true).
		Order("stars DESC").
		Order("github_updated_at DESC NULLS LAST").
		Find(&records).Error; err != nil {
		return nil, err
	}
	projects := make([]*domain.Project, 0, len(records))
	for i := range records {
		projects = append(projects, records[i].toDomain())
	}
	return projects, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres project repository not configured")
	}
	return nil
}

func toRecord(p *domain.Project) projectRecord {
	return projectRecord{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		URL:             p.URL,
		Homepage:        p.Homepage,
		Language:        p.Language,
		Stars:           p.Stars,
		Topics:          string(p.Topics),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		GitHubUpdatedAt: p.GitHubUpdatedAt,
		Featured:        p.Featured,
		DisplayOrder:    p.DisplayOrder,
	}
}

func (r projectRecord) toDomain() *domain.Project {
	return &domain.Project{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		URL:             r.URL,
		Homepage:        r.Homepage,
		Language:        r.Language,
		Stars:           r.Stars,
		Topics:          domain.Topics(r.Topics),
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
		GitHubUpdatedAt: utcPtr(r.GitHubUpdatedAt),
		Featured:        r.Featured,
		DisplayOrder:    r.DisplayOrder,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
