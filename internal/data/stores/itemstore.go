// Package stores contains SQLite-backed implementations of the domain store
// interfaces.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/worklog/internal/core/workitem"
	"github.com/colonyops/worklog/internal/data/db"
)

// ItemStore implements workitem.Store using SQLite. History rows are
// append-only: Save inserts only transition rows not yet present, keyed by
// (item_id, seq).
type ItemStore struct {
	db *db.DB
}

var _ workitem.Store = (*ItemStore)(nil)

// NewItemStore creates a new SQLite-backed work item store.
func NewItemStore(db *db.DB) *ItemStore {
	return &ItemStore{db: db}
}

const (
	saveAttempts  = 3
	saveRetryWait = 50 * time.Millisecond
)

// Save creates or replaces an item together with its transition history.
// Retries on SQLITE_BUSY.
func (s *ItemStore) Save(ctx context.Context, item workitem.Item) error {
	return retryBusy(saveAttempts, saveRetryWait, func() error {
		return s.saveTx(ctx, item)
	})
}

func (s *ItemStore) saveTx(ctx context.Context, item workitem.Item) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO work_items (id, kind, state, assignee, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				kind = excluded.kind,
				state = excluded.state,
				assignee = excluded.assignee,
				updated_at = excluded.updated_at`,
			item.ID,
			string(item.Kind),
			string(item.State),
			toNullString(item.Assignee),
			item.CreatedAt.UnixNano(),
			item.UpdatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("save work item: %w", err)
		}

		for seq, tr := range item.History {
			_, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO transitions (item_id, seq, from_state, to_state, actor, at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				item.ID,
				seq,
				string(tr.From),
				string(tr.To),
				toNullString(tr.Actor),
				tr.At.UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("save transition %d for %s: %w", seq, item.ID, err)
			}
		}

		return nil
	})
}

// Get returns a single item by ID. Returns workitem.ErrUnknownItem if the
// item does not exist.
func (s *ItemStore) Get(ctx context.Context, id string) (workitem.Item, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, kind, state, assignee, created_at, updated_at
		FROM work_items WHERE id = ?`, id)

	item, err := scanItem(row)
	if err != nil {
		if IsNotFoundError(err) {
			return workitem.Item{}, workitem.ErrUnknownItem
		}
		return workitem.Item{}, fmt.Errorf("get work item: %w", err)
	}

	history, err := s.loadHistory(ctx, id)
	if err != nil {
		return workitem.Item{}, err
	}
	item.History = history

	return item, nil
}

// List returns items matching the filter, ordered by created_at ASC.
func (s *ItemStore) List(ctx context.Context, filter workitem.ListFilter) ([]workitem.Item, error) {
	query := `SELECT id, kind, state, assignee, created_at, updated_at FROM work_items`
	var args []any

	hasState := filter.State != ""
	hasKind := filter.Kind != ""

	switch {
	case hasState && hasKind:
		query += ` WHERE state = ? AND kind = ?`
		args = append(args, string(filter.State), string(filter.Kind))
	case hasState:
		query += ` WHERE state = ?`
		args = append(args, string(filter.State))
	case hasKind:
		query += ` WHERE kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]workitem.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}

	for i := range items {
		history, err := s.loadHistory(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].History = history
	}

	return items, nil
}

func (s *ItemStore) loadHistory(ctx context.Context, id string) ([]workitem.Transition, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT from_state, to_state, actor, at
		FROM transitions WHERE item_id = ? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var history []workitem.Transition
	for rows.Next() {
		var (
			from, to string
			actor    sql.NullString
			at       int64
		)
		if err := rows.Scan(&from, &to, &actor, &at); err != nil {
			return nil, fmt.Errorf("scan transition for %s: %w", id, err)
		}
		history = append(history, workitem.Transition{
			From:  workitem.State(from),
			To:    workitem.State(to),
			Actor: fromNullString(actor),
			At:    time.Unix(0, at),
		})
	}
	return history, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (workitem.Item, error) {
	var (
		item                 workitem.Item
		kind, state          string
		assignee             sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&item.ID, &kind, &state, &assignee, &createdAt, &updatedAt)
	if err != nil {
		return workitem.Item{}, err
	}

	item.Kind = workitem.Kind(kind)
	item.State = workitem.State(state)
	item.Assignee = fromNullString(assignee)
	item.CreatedAt = time.Unix(0, createdAt)
	item.UpdatedAt = time.Unix(0, updatedAt)
	return item, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
