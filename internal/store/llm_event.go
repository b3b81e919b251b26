package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// eventRepo implements EventRepo with squirrel-built queries.
type eventRepo struct {
	s *Store
}

type llmEventRow struct {
	ID           int64  `db:"id"`
	CreatedMs    int64  `db:"created_ms"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	RequestBody  string `db:"request_body"`
	ResponseBody string `db:"response_body"`
}

func (row llmEventRow) record() LLMEventRecord {
	return LLMEventRecord{
		ID:        row.ID,
		Timestamp: time.UnixMilli(row.CreatedMs),
		LLMRequestEventData: LLMRequestEventData{
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
		},
	}
}

var llmEventColumns = []string{
	"id", "created_ms", "provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args, err := r.s.builder.
		Insert("llm_request_events").
		Columns("created_ms", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body").
		Values(r.s.now().UnixMilli(), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody,
			data.ResponseBody).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	q := r.s.builder.
		Select(llmEventColumns...).
		From("llm_request_events").
		OrderBy("id DESC")

	if opts.Purpose != "" {
		q = q.Where(squirrel.Eq{"purpose": opts.Purpose})
	}
	if opts.After > 0 {
		q = q.Where(squirrel.Gt{"id": opts.After})
	}
	if !opts.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_ms": opts.From.UnixMilli()})
	}
	if !opts.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{"created_ms": opts.To.UnixMilli()})
	}
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []llmEventRow
	if err := r.s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}

	records := make([]LLMEventRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error) {
	query, args, err := r.s.builder.
		Select(llmEventColumns...).
		From("llm_request_events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row llmEventRow
	if err := r.s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	rec := row.record()
	return &rec, nil
}

type usageRow struct {
	Key          string `db:"usage_key"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

func (r *eventRepo) usageBy(ctx context.Context, column string) ([]usageRow, error) {
	query, args, err := r.s.builder.
		Select(
			column+" AS usage_key",
			"COUNT(*) AS calls",
			"SUM(input_tokens) AS input_tokens",
			"SUM(output_tokens) AS output_tokens",
			"CAST(AVG(latency_ms) AS BIGINT) AS avg_latency_ms",
		).
		From("llm_request_events").
		GroupBy(column).
		OrderBy("calls DESC", column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build usage query: %w", err)
	}

	var rows []usageRow
	if err := r.s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query usage by %s: %w", column, err)
	}
	return rows, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.usageBy(ctx, "purpose")
	if err != nil {
		return nil, err
	}
	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = LLMUsage{
			Purpose:      row.Key,
			Calls:        row.Calls,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			AvgLatencyMs: row.AvgLatencyMs,
		}
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.usageBy(ctx, "model")
	if err != nil {
		return nil, err
	}
	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = LLMUsage{
			Model:        row.Key,
			Calls:        row.Calls,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			AvgLatencyMs: row.AvgLatencyMs,
		}
	}
	return out, nil
}

func (r *eventRepo) PruneLLMEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := r.s.builder.
		Delete("llm_request_events").
		Where(squirrel.Lt{"created_ms": cutoff.UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build prune: %w", err)
	}
	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune LLM events: %w", err)
	}
	return res.RowsAffected()
}
