package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/envirollm/llm-energy-bench/providers"
)

const recordColumns = `id, model_name, source, quantization, prompt, notes, status, created_at, response, error, metrics, quality`

// storedTimeLayout is fixed-width so that lexicographic order on the
// created_at column is chronological order. RFC3339Nano would trim
// trailing fractional zeros, which breaks ORDER BY for timestamps whose
// fractional parts differ in length.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Append inserts one record. This is the only mutation besides deletion;
// records are never updated in place.
func (c *Client) Append(ctx context.Context, rec BenchmarkRecord) error {
	if err := c.ready(); err != nil {
		return err
	}

	var metricsJSON, qualityJSON sql.NullString
	if rec.Metrics != nil {
		var err error
		if metricsJSON, err = marshalOptional(rec.Metrics); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	if rec.QualityMetrics != nil {
		var err error
		if qualityJSON, err = marshalOptional(rec.QualityMetrics); err != nil {
			return fmt.Errorf("failed to encode quality metrics: %w", err)
		}
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO benchmarks (id, model_name, source, quantization, prompt, prompt_hash, notes, status, created_at, response, error, metrics, quality)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ModelName, string(rec.Source), rec.Quantization, rec.Prompt,
		PromptHash(rec.Prompt), rec.Notes, rec.Status,
		rec.Timestamp.UTC().Format(storedTimeLayout),
		rec.Response, rec.Error, metricsJSON, qualityJSON)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetAll returns every record, newest first.
func (c *Client) GetAll(ctx context.Context) ([]BenchmarkRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM benchmarks ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByID returns one record or ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (BenchmarkRecord, error) {
	if err := c.ready(); err != nil {
		return BenchmarkRecord{}, err
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM benchmarks WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BenchmarkRecord{}, ErrNotFound
	}
	if err != nil {
		return BenchmarkRecord{}, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// Delete removes one record by id, or returns ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.ready(); err != nil {
		return err
	}

	res, err := c.db.ExecContext(ctx, `DELETE FROM benchmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll removes every record.
func (c *Client) ClearAll(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM benchmarks`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (BenchmarkRecord, error) {
	var rec BenchmarkRecord
	var source, createdAt string
	var metricsJSON, qualityJSON sql.NullString

	err := row.Scan(&rec.ID, &rec.ModelName, &source, &rec.Quantization,
		&rec.Prompt, &rec.Notes, &rec.Status, &createdAt,
		&rec.Response, &rec.Error, &metricsJSON, &qualityJSON)
	if err != nil {
		return BenchmarkRecord{}, err
	}

	rec.Source = providers.Source(source)
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.Timestamp = ts
	}
	if metricsJSON.Valid {
		var m Metrics
		if err := json.Unmarshal([]byte(metricsJSON.String), &m); err != nil {
			return BenchmarkRecord{}, fmt.Errorf("failed to decode metrics: %w", err)
		}
		rec.Metrics = &m
	}
	if qualityJSON.Valid {
		var q QualityMetrics
		if err := json.Unmarshal([]byte(qualityJSON.String), &q); err != nil {
			return BenchmarkRecord{}, fmt.Errorf("failed to decode quality metrics: %w", err)
		}
		rec.QualityMetrics = &q
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]BenchmarkRecord, error) {
	records := []BenchmarkRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}
