package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

var _ ports.Repository = (*Repository)(nil)

// timeLayout keeps stored timestamps lexically sortable.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const projectColumns = `id, name, description, url, homepage, language, stars, topics,
	created_at, updated_at, github_updated_at, is_featured, display_order`

// Repository persists projects in SQLite through database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository wires a SQLite-backed repository. The schema is expected to
// exist; see migrations.RunSQLite. Caller manages DB lifecycle.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *Repository) Insert(ctx context.Context, project *domain.Project) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if project == nil {
		return errors.New("project is nil")
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Name,
		nullString(project.Description),
		project.URL,
		nullString(project.Homepage),
		nullString(project.Language),
		project.Stars,
		string(project.Topics),
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
		nullTime(project.GitHubUpdatedAt),
		project.Featured,
		project.DisplayOrder,
	)
	if err != nil {
		return fmt.Errorf("insert project %d: %w", project.ID, err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, project *domain.Project) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if project == nil {
		return errors.New("project is nil")
	}
	result, err := r.db.ExecContext(ctx, `UPDATE projects SET
		name = ?, description = ?, url = ?, homepage = ?, language = ?, stars = ?, topics = ?,
		updated_at = ?, github_updated_at = ?, is_featured = ?
		WHERE id = ?`,
		project.Name,
		nullString(project.Description),
		project.URL,
		nullString(project.Homepage),
		nullString(project.Language),
		project.Stars,
		string(project.Topics),
		formatTime(project.UpdatedAt),
		nullTime(project.GitHubUpdatedAt),
		project.Featured,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("update project %d: %w", project.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ReconcileFeatured runs the clear-then-set pass in a single transaction.
func (r *Repository) ReconcileFeatured(ctx context.Context, ids []int64) (err error) {
	if err := r.ensureDB(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, "UPDATE projects SET is_featured = 0 WHERE is_featured = 1"); err != nil {
		return fmt.Errorf("clear featured flags: %w", err)
	}
	if len(ids) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		args := make([]any, 0, len(ids))
		for _, id := range ids {
			args = append(args, id)
		}
		if _, err = tx.ExecContext(ctx, "UPDATE projects SET is_featured = 1 WHERE id IN ("+placeholders+")", args...); err != nil {
			return fmt.Errorf("set featured flags: %w", err)
		}
	}
	return tx.Commit()
}

func (r *Repository) ListFeatured(ctx context.Context) ([]*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, "SELECT "+projectColumns+` FROM projects
		WHERE is_featured = 1
		ORDER BY stars DESC, github_updated_at IS NULL, github_updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("sqlite project repository not configured")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p               domain.Project
		description     sql.NullString
		homepage        sql.NullString
		language        sql.NullString
		topics          sql.NullString
		createdAt       sql.NullString
		updatedAt       sql.NullString
		githubUpdatedAt sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.Name, &description, &p.URL, &homepage, &language, &p.Stars, &topics,
		&createdAt, &updatedAt, &githubUpdatedAt, &p.Featured, &p.DisplayOrder,
	); err != nil {
		return nil, err
	}
	p.Description = stringPtr(description)
	p.Homepage = stringPtr(homepage)
	p.Language = stringPtr(language)
	p.Topics = domain.Topics(topics.String)
	p.CreatedAt = parseTime(createdAt.String)
	p.UpdatedAt = parseTime(updatedAt.String)
	if githubUpdatedAt.Valid {
		t := parseTime(githubUpdatedAt.String)
		if !t.IsZero() {
			p.GitHubUpdatedAt = &t
		}
	}
	return &p, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
