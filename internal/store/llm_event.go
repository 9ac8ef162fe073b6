package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over the llm_request_events table.
type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := sqlite().Insert(eventsTableName).
		Columns(eventColumns[1:]...).
		Values(
			time.Now().UTC().UnixMilli(), data.SessionID, data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
			data.RequestBody, data.ResponseBody,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := sqlite()
	sel := b.Select(eventColumns...).
		From(b.Table(eventsTableName)).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC().UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC().UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return r.queryEvents(ctx, sel)
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	b := sqlite()
	sel := b.Select(eventColumns...).
		From(b.Table(eventsTableName)).
		Where(entsql.EQ("id", id))
	events, err := r.queryEvents(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	b := sqlite()
	query, args := b.Select(
		"purpose",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency_ms"),
	).
		From(b.Table(eventsTableName)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()

	var rows []struct {
		Purpose      string  `sql:"purpose"`
		Calls        int     `sql:"calls"`
		InputTokens  int     `sql:"input_tokens"`
		OutputTokens int     `sql:"output_tokens"`
		AvgLatencyMs float64 `sql:"avg_latency_ms"`
	}
	if err := r.scan(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}

	out := make([]PurposeUsage, 0, len(rows))
	for _, u := range rows {
		out = append(out, PurposeUsage{
			Purpose:      u.Purpose,
			Calls:        u.Calls,
			InputTokens:  u.InputTokens,
			OutputTokens: u.OutputTokens,
			AvgLatencyMs: int64(u.AvgLatencyMs),
		})
	}
	return out, nil
}

// LLMUsageByModel counts successful calls only: failed calls are not billed.
func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	b := sqlite()
	query, args := b.Select(
		"model",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
	).
		From(b.Table(eventsTableName)).
		Where(entsql.EQ("success", true)).
		GroupBy("model").
		OrderBy("model").
		Query()

	var rows []struct {
		Model        string `sql:"model"`
		Calls        int    `sql:"calls"`
		InputTokens  int    `sql:"input_tokens"`
		OutputTokens int    `sql:"output_tokens"`
	}
	if err := r.scan(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}

	out := make([]ModelUsage, 0, len(rows))
	for _, u := range rows {
		out = append(out, ModelUsage(u))
	}
	return out, nil
}

// scan runs query and scans every row into the slice pointed to by v.
func (r *eventRepo) scan(ctx context.Context, query string, args []any, v any) error {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, v)
}

func (r *eventRepo) queryEvents(ctx context.Context, sel *entsql.Selector) ([]LLMRequestEvent, error) {
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMRequestEvent
	for rows.Next() {
		var (
			e  LLMRequestEvent
			ts int64
		)
		err := rows.Scan(
			&e.ID, &ts, &e.SessionID, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody,
		)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}
