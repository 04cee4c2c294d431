package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var entryColumns = []string{"id", "created_at", "input", "output", "source_lang", "target_lang"}

// entryTable holds the queries shared by favorites and recent history.
type entryTable struct {
	db    *sql.DB
	b     *entsql.DialectBuilder
	table string
}

func (t entryTable) insert(ctx context.Context, e Entry) (Entry, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query, args := t.b.Insert(t.table).
		Columns("created_at", "input", "output", "source_lang", "target_lang").
		Values(e.CreatedAt, e.Input, e.Output, e.SourceLang, e.TargetLang).
		Returning("id").
		Query()
	if err := t.db.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return Entry{}, fmt.Errorf("insert into %s: %w", t.table, err)
	}
	return e, nil
}

// find returns the first entry matching every predicate, or nil.
func (t entryTable) find(ctx context.Context, preds ...*entsql.Predicate) (*Entry, error) {
	query, args := t.b.Select(entryColumns...).
		From(t.b.Table(t.table)).
		Where(entsql.And(preds...)).
		Limit(1).
		Query()
	var e Entry
	err := t.db.QueryRowContext(ctx, query, args...).
		Scan(&e.ID, &e.CreatedAt, &e.Input, &e.Output, &e.SourceLang, &e.TargetLang)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.table, err)
	}
	return &e, nil
}

// list returns entries newest first. The id breaks ties between entries
// created within the same clock tick.
func (t entryTable) list(ctx context.Context) ([]Entry, error) {
	query, args := t.b.Select(entryColumns...).
		From(t.b.Table(t.table)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Input, &e.Output, &e.SourceLang, &e.TargetLang); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (t entryTable) delete(ctx context.Context, preds ...*entsql.Predicate) error {
	_, err := t.deleteCount(ctx, preds...)
	return err
}

func (t entryTable) deleteCount(ctx context.Context, preds ...*entsql.Predicate) (int64, error) {
	del := t.b.Delete(t.table)
	if len(preds) > 0 {
		del = del.Where(entsql.And(preds...))
	}
	query, args := del.Query()
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.table, err)
	}
	return res.RowsAffected()
}

// trim keeps the newest keep entries.
func (t entryTable) trim(ctx context.Context, keep int) error {
	entries, err := t.list(ctx)
	if err != nil {
		return err
	}
	if len(entries) <= keep {
		return nil
	}
	ids := make([]any, 0, len(entries)-keep)
	for _, e := range entries[keep:] {
		ids = append(ids, e.ID)
	}
	return t.delete(ctx, entsql.In("id", ids...))
}

type favoriteRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *favoriteRepo) table() entryTable {
	return entryTable{db: r.db, b: r.b, table: tableFavorites}
}

func (r *favoriteRepo) Add(ctx context.Context, e Entry) (Entry, bool, error) {
	t := r.table()
	existing, err := t.find(ctx,
		entsql.EQ("input", e.Input),
		entsql.EQ("output", e.Output),
		entsql.EQ("source_lang", e.SourceLang),
		entsql.EQ("target_lang", e.TargetLang),
	)
	if err != nil {
		return Entry{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	saved, err := t.insert(ctx, e)
	if err != nil {
		return Entry{}, false, err
	}
	return saved, true, t.trim(ctx, MaxFavorites)
}

func (r *favoriteRepo) List(ctx context.Context) ([]Entry, error) {
	return r.table().list(ctx)
}

func (r *favoriteRepo) Remove(ctx context.Context, id int) error {
	n, err := r.table().deleteCount(ctx, entsql.EQ("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *favoriteRepo) Clear(ctx context.Context) error {
	return r.table().delete(ctx)
}

type recentRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *recentRepo) table() entryTable {
	return entryTable{db: r.db, b: r.b, table: tableRecent}
}

func (r *recentRepo) Record(ctx context.Context, e Entry) (Entry, error) {
	t := r.table()
	if err := t.delete(ctx, entsql.EQ("input", e.Input)); err != nil {
		return Entry{}, err
	}
	saved, err := t.insert(ctx, e)
	if err != nil {
		return Entry{}, err
	}
	return saved, t.trim(ctx, MaxRecent)
}

func (r *recentRepo) List(ctx context.Context) ([]Entry, error) {
	return r.table().list(ctx)
}

func (r *recentRepo) Clear(ctx context.Context) error {
	return r.table().delete(ctx)
}
