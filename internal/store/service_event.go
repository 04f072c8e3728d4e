package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const serviceCallsTable = "service_call_events"

var serviceCallColumns = []string{
	"id", "sequence", "created_at", "service", "method", "url",
	"status_code", "latency_ms", "success", "error_message",
}

func (r *eventRepo) AppendServiceCall(ctx context.Context, data ServiceCallEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(serviceCallsTable).
		Columns("sequence", "created_at", "service", "method", "url",
			"status_code", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UTC().UnixMilli(), data.Service, data.Method, data.URL,
			data.StatusCode, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save service call event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryServiceCalls(ctx context.Context, opts QueryOpts) ([]ServiceCallEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(serviceCallColumns...).
		From(entsql.Table(serviceCallsTable))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query service calls: %w", err)
	}
	defer rows.Close()

	var records []ServiceCallEventRecord
	for rows.Next() {
		rec, err := scanServiceCall(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) GetServiceCall(ctx context.Context, seq int64) (*ServiceCallEventRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(serviceCallColumns...).
		From(entsql.Table(serviceCallsTable)).
		Where(entsql.EQ("sequence", seq)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("get service call: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanServiceCall(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanServiceCall(rows *entsql.Rows) (ServiceCallEventRecord, error) {
	var (
		rec       ServiceCallEventRecord
		createdAt int64
	)
	err := rows.Scan(&rec.ID, &rec.Sequence, &createdAt, &rec.Service, &rec.Method, &rec.URL,
		&rec.StatusCode, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage)
	if err != nil {
		return rec, fmt.Errorf("scan service call: %w", err)
	}
	rec.Timestamp = time.UnixMilli(createdAt).UTC()
	return rec, nil
}
