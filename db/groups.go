package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// hashRow scans a record row with its stored prompt_hash prepended.
type hashRow struct {
	rows *sql.Rows
	hash *string
}

func (h hashRow) Scan(dest ...any) error {
	return h.rows.Scan(append([]any{h.hash}, dest...)...)
}

// GroupByPrompt computes the prompt-group view from the current record
// set, keyed on the prompt_hash column written at insert time. Groups
// are ordered by first run descending; members keep insertion order.
// This is a view, not stored state.
func (c *Client) GroupByPrompt(ctx context.Context) ([]PromptGroup, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT prompt_hash, `+recordColumns+` FROM benchmarks ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	byHash := make(map[string]*PromptGroup)
	order := []string{}
	for rows.Next() {
		var hash string
		rec, err := scanRecord(hashRow{rows: rows, hash: &hash})
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		group, ok := byHash[hash]
		if !ok {
			group = &PromptGroup{
				PromptHash: hash,
				Prompt:     rec.Prompt,
				FirstRun:   rec.Timestamp,
				LastRun:    rec.Timestamp,
			}
			byHash[hash] = group
			order = append(order, hash)
		}
		if rec.Timestamp.Before(group.FirstRun) {
			group.FirstRun = rec.Timestamp
		}
		if rec.Timestamp.After(group.LastRun) {
			group.LastRun = rec.Timestamp
		}
		group.Benchmarks = append(group.Benchmarks, rec)
		group.RunCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	groups := make([]PromptGroup, 0, len(order))
	for _, hash := range order {
		groups = append(groups, *byHash[hash])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].FirstRun.After(groups[j].FirstRun)
	})
	return groups, nil
}
