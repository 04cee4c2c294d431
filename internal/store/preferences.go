package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// preferencesVersion is bumped when Preferences changes shape.
const preferencesVersion = 1

type preferencesRepo struct {
	db  *sql.DB
	b   *entsql.DialectBuilder
	seq *sequenceCounter
}

func (r *preferencesRepo) Save(ctx context.Context, prefs Preferences) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	prefs.Version = preferencesVersion
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	query, args := r.b.Insert(tablePreferences).
		Columns("sequence", "timestamp", "data").
		Values(seqNum, time.Now().UTC(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (r *preferencesRepo) Latest(ctx context.Context) (*PreferencesSnapshot, error) {
	query, args := r.b.Select("id", "sequence", "timestamp", "data").
		From(r.b.Table(tablePreferences)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var snap PreferencesSnapshot
	var raw string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.Sequence, &snap.Timestamp, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return &snap, nil
}

func (r *preferencesRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence of the newest snapshot that falls outside keep.
	query, args := r.b.Select("sequence").
		From(r.b.Table(tablePreferences)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query preferences for prune: %w", err)
	}

	query, args = r.b.Delete(tablePreferences).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune preferences: %w", err)
	}
	return nil
}
