package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

// Table names.
const (
	tableQuizSessions = "quiz_session_events"
	tableQuizAnswers  = "quiz_answer_events"
	tableLLMRequests  = "llm_request_events"
	tableFavorites    = "favorites"
	tableRecent       = "recent_translations"
	tablePreferences  = "preference_snapshots"
)

// Column types differ between SQLite and Postgres; the statements below use
// {{placeholders}} that are expanded per dialect.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS quiz_session_events (
		id {{id}},
		sequence {{bigint}} NOT NULL UNIQUE,
		timestamp {{time}} NOT NULL,
		session_id TEXT NOT NULL,
		action TEXT NOT NULL,
		mode TEXT NOT NULL,
		direction TEXT NOT NULL DEFAULT '',
		source_lang TEXT NOT NULL DEFAULT '',
		target_lang TEXT NOT NULL DEFAULT '',
		run_length INTEGER NOT NULL DEFAULT 0,
		answered INTEGER NOT NULL DEFAULT 0,
		correct INTEGER NOT NULL DEFAULT 0,
		points INTEGER NOT NULL DEFAULT 0,
		best_streak INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_session_events_session_id ON quiz_session_events (session_id)`,

	`CREATE TABLE IF NOT EXISTS quiz_answer_events (
		id {{id}},
		sequence {{bigint}} NOT NULL UNIQUE,
		timestamp {{time}} NOT NULL,
		session_id TEXT NOT NULL,
		question_index INTEGER NOT NULL,
		prompt TEXT NOT NULL,
		expected TEXT NOT NULL,
		given TEXT NOT NULL,
		correct {{bool}} NOT NULL,
		similarity {{float}} NOT NULL DEFAULT 0,
		timed_out {{bool}} NOT NULL,
		time_ms {{bigint}} NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_answer_events_session_id ON quiz_answer_events (session_id)`,

	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id {{id}},
		sequence {{bigint}} NOT NULL UNIQUE,
		timestamp {{time}} NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms {{bigint}} NOT NULL DEFAULT 0,
		success {{bool}} NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS favorites (
		id {{id}},
		created_at {{time}} NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS recent_translations (
		id {{id}},
		created_at {{time}} NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS preference_snapshots (
		id {{id}},
		sequence {{bigint}} NOT NULL,
		timestamp {{time}} NOT NULL,
		data TEXT NOT NULL
	)`,
}

var columnTypes = map[string]*strings.Replacer{
	dialect.SQLite: strings.NewReplacer(
		"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{bigint}}", "INTEGER",
		"{{time}}", "DATETIME",
		"{{bool}}", "BOOLEAN",
		"{{float}}", "REAL",
	),
	dialect.Postgres: strings.NewReplacer(
		"{{id}}", "BIGSERIAL PRIMARY KEY",
		"{{bigint}}", "BIGINT",
		"{{time}}", "TIMESTAMPTZ",
		"{{bool}}", "BOOLEAN",
		"{{float}}", "DOUBLE PRECISION",
	),
}

// migrate creates any missing tables and indexes.
func migrate(ctx context.Context, db *sql.DB, dia string) error {
	r, ok := columnTypes[dia]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", dia)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
