package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

type xpEventRow struct {
	ID        int64  `db:"id"`
	CreatedMs int64  `db:"created_ms"`
	UserID    string `db:"user_id"`
	SessionID string `db:"session_id"`
	Reason    string `db:"reason"`
	Amount    int    `db:"amount"`
}

func (r *eventRepo) AppendXPEvent(ctx context.Context, data XPEventData) error {
	query, args, err := r.s.builder.
		Insert("xp_events").
		Columns("created_ms", "user_id", "session_id", "reason", "amount").
		Values(r.s.now().UnixMilli(), data.UserID, data.SessionID, data.Reason, data.Amount).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save xp event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryXPEvents(ctx context.Context, opts QueryOpts) ([]XPEventRecord, error) {
	q := r.s.builder.
		Select("id", "created_ms", "user_id", "session_id", "reason", "amount").
		From("xp_events").
		OrderBy("id DESC")

	if opts.UserID != "" {
		q = q.Where(squirrel.Eq{"user_id": opts.UserID})
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

	var rows []xpEventRow
	if err := r.s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query xp events: %w", err)
	}

	records := make([]XPEventRecord, len(rows))
	for i, row := range rows {
		records[i] = XPEventRecord{
			ID:        row.ID,
			Timestamp: time.UnixMilli(row.CreatedMs),
			XPEventData: XPEventData{
				UserID:    row.UserID,
				SessionID: row.SessionID,
				Reason:    row.Reason,
				Amount:    row.Amount,
			},
		}
	}
	return records, nil
}

func (r *eventRepo) XPTotalsByReason(ctx context.Context, userID string) ([]XPTotal, error) {
	query, args, err := r.s.builder.
		Select("reason", "COUNT(*) AS n", "SUM(amount) AS total").
		From("xp_events").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("reason").
		OrderBy("reason").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build totals query: %w", err)
	}

	var rows []struct {
		Reason string `db:"reason"`
		N      int    `db:"n"`
		Total  int    `db:"total"`
	}
	if err := r.s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query xp totals: %w", err)
	}

	out := make([]XPTotal, len(rows))
	for i, row := range rows {
		out[i] = XPTotal{Reason: row.Reason, Count: row.N, Amount: row.Total}
	}
	return out, nil
}

func (r *eventRepo) DeleteXPEvents(ctx context.Context, userID string) error {
	query, args, err := r.s.builder.
		Delete("xp_events").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete xp events: %w", err)
	}
	return nil
}
