package split

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TemplateRepository handles split template persistence in PostgreSQL
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// CreateTemplate inserts a template and its ordered participants
func (r *TemplateRepository) CreateTemplate(ctx context.Context, t *Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO split_templates (id, group_id, name, strategy, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.GroupID, t.Name, t.Strategy, t.CreatedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	for i, p := range t.Participants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO split_template_participants (template_id, user_id, position, weight)
			VALUES ($1, $2, $3, $4)
		`, t.ID, p.UserID, i, p.Weight)
		if err != nil {
			return fmt.Errorf("failed to create template participant %d: %w", p.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template within a group
func (r *TemplateRepository) GetTemplate(ctx context.Context, groupID int64, id string) (*Template, error) {
	t := &Template{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, group_id, name, strategy, created_by, created_at
		FROM split_templates
		WHERE id = $1 AND group_id = $2
	`, id, groupID).Scan(&t.ID, &t.GroupID, &t.Name, &t.Strategy, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	participants, err := r.participants(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Participants = participants

	return t, nil
}

// ListTemplates retrieves all templates of a group ordered by name
func (r *TemplateRepository) ListTemplates(ctx context.Context, groupID int64) ([]*Template, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, group_id, name, strategy, created_by, created_at
		FROM split_templates
		WHERE group_id = $1
		ORDER BY name
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t := &Template{}
		if err := rows.Scan(&t.ID, &t.GroupID, &t.Name, &t.Strategy, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	for _, t := range templates {
		if t.Participants, err = r.participants(ctx, t.ID); err != nil {
			return nil, err
		}
	}

	return templates, nil
}

func (r *TemplateRepository) participants(ctx context.Context, templateID string) ([]*TemplateParticipant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, weight
		FROM split_template_participants
		WHERE template_id = $1
		ORDER BY position
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template participants: %w", err)
	}
	defer rows.Close()

	var participants []*TemplateParticipant
	for rows.Next() {
		p := &TemplateParticipant{}
		if err := rows.Scan(&p.UserID, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan template participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
