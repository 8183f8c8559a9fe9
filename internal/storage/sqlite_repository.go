package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/palomera/studyd/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveChecklist(ctx context.Context, in model.Checklist) error {
	sections, err := json.Marshal(in.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO checklists (id, title, emoji, type, markdown, sections, total_completed, total_items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			emoji = excluded.emoji,
			type = excluded.type,
			markdown = excluded.markdown,
			sections = excluded.sections,
			total_completed = excluded.total_completed,
			total_items = excluded.total_items,
			updated_at = excluded.updated_at`,
		in.ID, in.Title, in.Emoji, string(in.Type), in.Markdown, string(sections),
		in.TotalCompleted, in.TotalItems, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) DeleteChecklist(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM checklists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListChecklists(ctx context.Context) ([]model.Checklist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, emoji, type, markdown, sections, total_completed, total_items, created_at, updated_at
		FROM checklists ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Checklist, 0)
	for rows.Next() {
		var cl model.Checklist
		var typ, sections, createdAt, updatedAt string
		if err := rows.Scan(&cl.ID, &cl.Title, &cl.Emoji, &typ, &cl.Markdown, &sections,
			&cl.TotalCompleted, &cl.TotalItems, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		cl.Type = model.ChecklistType(typ)
		if cl.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if cl.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sections), &cl.Sections); err != nil {
			// A corrupt body means no usable saved sections; keep the row
			// with an empty tree rather than failing the whole load.
			cl.Sections = []model.TodoSection{}
			cl.TotalCompleted = 0
			cl.TotalItems = 0
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, in model.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, emoji, cadence, mode, target_count, completed_count, checklist_id, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			emoji = excluded.emoji,
			cadence = excluded.cadence,
			mode = excluded.mode,
			target_count = excluded.target_count,
			completed_count = excluded.completed_count,
			checklist_id = excluded.checklist_id,
			deadline = excluded.deadline`,
		in.ID, in.Title, in.Emoji, string(in.Cadence), string(in.Mode),
		in.TargetCount, in.CompletedCount, in.ChecklistID, nullTime(in.Deadline), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]model.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, emoji, cadence, mode, target_count, completed_count, checklist_id, deadline, created_at
		FROM goals ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Goal, 0)
	for rows.Next() {
		var g model.Goal
		var cadence, mode, createdAt string
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.Title, &g.Emoji, &cadence, &mode,
			&g.TargetCount, &g.CompletedCount, &g.ChecklistID, &deadline, &createdAt); err != nil {
			return nil, err
		}
		g.Cadence = model.GoalCadence(cadence)
		g.Mode = model.GoalMode(mode)
		if g.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if deadline.Valid {
			t, err := parseTime(deadline.String)
			if err != nil {
				return nil, err
			}
			g.Deadline = &t
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (r *SQLiteRepository) DeleteSetting(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mustTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return mustTime(*t)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return t, nil
}
