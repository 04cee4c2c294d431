package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	b   *entsql.DialectBuilder
	seq *sequenceCounter
}

func (r *eventRepo) AppendQuizSession(ctx context.Context, data QuizSessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.b.Insert(tableQuizSessions).
		Columns("sequence", "timestamp", "session_id", "action", "mode", "direction",
			"source_lang", "target_lang", "run_length", "answered", "correct",
			"points", "best_streak", "duration_secs").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Action, data.Mode, data.Direction,
			data.SourceLang, data.TargetLang, data.RunLength, data.Answered, data.Correct,
			data.Points, data.BestStreak, data.DurationSecs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendQuizAnswer(ctx context.Context, data QuizAnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.b.Insert(tableQuizAnswers).
		Columns("sequence", "timestamp", "session_id", "question_index", "prompt",
			"expected", "given", "correct", "similarity", "timed_out", "time_ms").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.QuestionIndex, data.Prompt,
			data.Expected, data.Given, data.Correct, data.Similarity, data.TimedOut, data.TimeMs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizSessions(ctx context.Context, opts QueryOpts) ([]QuizSessionSummary, error) {
	sel := r.b.Select("id", "sequence", "timestamp", "session_id", "mode", "direction",
		"source_lang", "target_lang", "run_length", "answered", "correct",
		"points", "best_streak", "duration_secs").
		From(r.b.Table(tableQuizSessions)).
		Where(entsql.EQ("action", QuizActionEnd))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz sessions: %w", err)
	}
	defer rows.Close()

	var out []QuizSessionSummary
	for rows.Next() {
		var s QuizSessionSummary
		if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.SessionID, &s.Mode, &s.Direction,
			&s.SourceLang, &s.TargetLang, &s.RunLength, &s.Answered, &s.Correct,
			&s.Points, &s.BestStreak, &s.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan quiz session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.b.Insert(tableLLMRequests).
		Columns(append([]string{"sequence", "timestamp"}, llmColumns...)...).
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

var llmColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) selectLLM() *entsql.Selector {
	return r.b.Select(append([]string{"id", "sequence", "timestamp"}, llmColumns...)...).
		From(r.b.Table(tableLLMRequests))
}

func scanLLMEvent(sc interface{ Scan(...any) error }) (LLMEvent, error) {
	var e LLMEvent
	err := sc.Scan(&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	sel := r.selectLLM()
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := r.selectLLM().Where(entsql.EQ("id", id)).Query()
	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose", func(u *LLMUsage) *string { return &u.Purpose })
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model", func(u *LLMUsage) *string { return &u.Model })
}

// usage aggregates llm_request_events grouped by one column.
func (r *eventRepo) usage(ctx context.Context, column string, key func(*LLMUsage) *string) ([]LLMUsage, error) {
	query, args := r.b.Select(column,
		"COUNT(*)",
		"COALESCE(SUM(input_tokens), 0)",
		"COALESCE(SUM(output_tokens), 0)",
		"COALESCE(AVG(latency_ms), 0)").
		From(r.b.Table(tableLLMRequests)).
		GroupBy(column).
		OrderBy(column).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		var avg float64
		if err := rows.Scan(key(&u), &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.AvgLatencyMs = int64(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

// applyQueryOpts adds the QueryOpts filters and orders newest first.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
