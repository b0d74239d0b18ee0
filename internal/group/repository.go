package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key
const uniqueViolation = "23505"

const groupColumns = `id, name, description, created_by, created_at`

const memberColumns = `group_id, user_id, display_name, status, role, joined_at`

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithOwner inserts a group and its joined admin in one transaction
func (r *Repository) CreateWithOwner(ctx context.Context, g *Group, owner *GroupMember) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create group: %w", err)
	}
	defer tx.Rollback()

	created, err := scanGroup(tx.QueryRowContext(ctx,
		`INSERT INTO groups (name, description, created_by) VALUES ($1, $2, $3) RETURNING `+groupColumns,
		g.Name, g.Description, g.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}

	owner.GroupID = created.ID
	if _, err := insertMember(ctx, tx, owner); err != nil {
		return nil, fmt.Errorf("insert group owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create group: %w", err)
	}
	return created, nil
}

// GetByID returns nil when the group does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	g, err := scanGroup(r.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}
	return g, nil
}

// ListByUserID returns every group the user has a membership row in, newest first
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		WHERE EXISTS (SELECT 1 FROM group_members gm WHERE gm.group_id = g.id AND gm.user_id = $1)
		ORDER BY g.created_at DESC, g.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups of user %d: %w", userID, err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember inserts a membership row; a second row for the same user is ErrMemberAlreadyExists
func (r *Repository) AddMember(ctx context.Context, m *GroupMember) (*GroupMember, error) {
	member, err := insertMember(ctx, r.db, m)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrMemberAlreadyExists
		}
		return nil, fmt.Errorf("add member %d to group %d: %w", m.UserID, m.GroupID, err)
	}
	return member, nil
}

// GetMembers lists the members of a group in join order
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE group_id = $1 ORDER BY joined_at, user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members of group %d: %w", groupID, err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember returns nil when the user has no row in the group
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member %d of group %d: %w", userID, groupID, err)
	}
	return m, nil
}

// UpdateMemberStatus returns nil when the membership does not exist
func (r *Repository) UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) (*GroupMember, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx,
		`UPDATE group_members SET status = $3 WHERE group_id = $1 AND user_id = $2 RETURNING `+memberColumns,
		groupID, userID, status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update member %d of group %d: %w", userID, groupID, err)
	}
	return m, nil
}

// RemoveMember deletes the membership row
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("remove member %d from group %d: %w", userID, groupID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove member rows affected: %w", err)
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertMember(ctx context.Context, q queryRower, m *GroupMember) (*GroupMember, error) {
	return scanMember(q.QueryRowContext(ctx, `
		INSERT INTO group_members (group_id, user_id, display_name, status, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+memberColumns,
		m.GroupID, m.UserID, m.DisplayName, m.Status, m.Role,
	))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(row scanner) (*Group, error) {
	g := &Group{}
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}

func scanMember(row scanner) (*GroupMember, error) {
	m := &GroupMember{}
	if err := row.Scan(&m.GroupID, &m.UserID, &m.DisplayName, &m.Status, &m.Role, &m.JoinedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
