package split

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository handles split record persistence in PostgreSQL
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new split repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, original_expense_id, group_id, total_amount, strategy, description, status, created_by, created_at`

const participantColumns = `split_id, user_id, position, amount, percentage, status, decline_reason, confirmed_at, settled_at`

// CreateSplitRecord inserts the record and its participants in one transaction
func (r *Repository) CreateSplitRecord(ctx context.Context, record *SplitRecord, participants []*Participant) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO split_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err = tx.QueryRowContext(ctx, query,
		record.ID,
		record.OriginalExpenseID,
		record.GroupID,
		record.TotalAmount,
		record.Strategy,
		record.Description,
		record.Status,
		record.CreatedBy,
		record.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create split record: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO split_participants (split_id, user_id, position, amount, percentage, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare participant insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range participants {
		if _, err := stmt.ExecContext(ctx, id, p.UserID, p.Position, p.Amount, p.Percentage, p.Status); err != nil {
			return "", fmt.Errorf("failed to create participant %d: %w", p.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit split record: %w", err)
	}

	return id, nil
}

// GetSplitRecord retrieves a split and its participants within a group
func (r *Repository) GetSplitRecord(ctx context.Context, groupID int64, id string) (*SplitWithParticipants, error) {
	return getSplit(ctx, r.db, groupID, id, false)
}

// ListSplitRecords retrieves the group's splits, newest first
func (r *Repository) ListSplitRecords(ctx context.Context, groupID int64, status *RecordStatus) ([]*SplitWithParticipants, error) {
	query := `SELECT ` + recordColumns + ` FROM split_records WHERE group_id = $1`
	args := []any{groupID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list split records: %w", err)
	}
	defer rows.Close()

	var splits []*SplitWithParticipants
	index := make(map[string]*SplitWithParticipants)
	var ids []string
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		s := &SplitWithParticipants{Record: record}
		splits = append(splits, s)
		index[record.ID] = s
		ids = append(ids, record.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list split records: %w", err)
	}
	if len(ids) == 0 {
		return splits, nil
	}

	prows, err := r.db.QueryContext(ctx, `
		SELECT `+participantColumns+`
		FROM split_participants
		WHERE split_id = ANY($1::uuid[])
		ORDER BY split_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		p, err := scanParticipant(prows)
		if err != nil {
			return nil, err
		}
		if s, ok := index[p.SplitID]; ok {
			s.Participants = append(s.Participants, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return splits, nil
}

// InTx runs fn inside a database transaction
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(ctx, &repositoryTx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type repositoryTx struct {
	tx *sql.Tx
}

// LockSplitRecord takes a row lock on the record for the rest of the transaction
func (t *repositoryTx) LockSplitRecord(ctx context.Context, groupID int64, id string) (*SplitWithParticipants, error) {
	return getSplit(ctx, t.tx, groupID, id, true)
}

func (t *repositoryTx) UpdateParticipantStatus(ctx context.Context, splitID string, userID int64, status ParticipantStatus, reason *string, at time.Time) error {
	query := `
		UPDATE split_participants
		SET status = $3,
		    decline_reason = CASE WHEN $3 = 'DECLINED' THEN $4 ELSE decline_reason END,
		    confirmed_at = CASE WHEN $3 = 'CONFIRMED' THEN $5 ELSE confirmed_at END,
		    settled_at = CASE WHEN $3 = 'SETTLED' THEN $5 ELSE settled_at END
		WHERE split_id = $1 AND user_id = $2
	`

	result, err := t.tx.ExecContext(ctx, query, splitID, userID, status, reason, at)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (t *repositoryTx) UpdateRecordStatus(ctx context.Context, splitID string, status RecordStatus) error {
	result, err := t.tx.ExecContext(ctx, `UPDATE split_records SET status = $2 WHERE id = $1`, splitID, status)
	if err != nil {
		return fmt.Errorf("failed to update split status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSplitNotFound
	}
	return nil
}

func getSplit(ctx context.Context, q querier, groupID int64, id string, forUpdate bool) (*SplitWithParticipants, error) {
	query := `SELECT ` + recordColumns + ` FROM split_records WHERE id = $1 AND group_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	record, err := scanRecord(q.QueryRowContext(ctx, query, id, groupID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSplitNotFound
		}
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+participantColumns+`
		FROM split_participants
		WHERE split_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	s := &SplitWithParticipants{Record: record}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		s.Participants = append(s.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*SplitRecord, error) {
	record := &SplitRecord{}
	err := row.Scan(
		&record.ID,
		&record.OriginalExpenseID,
		&record.GroupID,
		&record.TotalAmount,
		&record.Strategy,
		&record.Description,
		&record.Status,
		&record.CreatedBy,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan split record: %w", err)
	}
	return record, nil
}

func scanParticipant(row scanner) (*Participant, error) {
	p := &Participant{}
	if err := row.Scan(
		&p.SplitID,
		&p.UserID,
		&p.Position,
		&p.Amount,
		&p.Percentage,
		&p.Status,
		&p.DeclineReason,
		&p.ConfirmedAt,
		&p.SettledAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}
