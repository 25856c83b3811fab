package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader is the fixed export schema. wh_per_token is derived at
// export time from total_energy_wh / tokens_generated, never stored.
var csvHeader = []string{
	"model", "source", "quantization", "energy_wh", "wh_per_token",
	"duration_s", "tokens_per_second", "quality_score", "timestamp", "notes",
}

// ExportCSV streams completed records as CSV, newest first.
func (c *Client) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := c.GetAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range records {
		if rec.Status != StatusCompleted || rec.Metrics == nil {
			continue
		}

		whPerToken := ""
		tokensPerSecond := ""
		if rec.Metrics.TokensGenerated != nil && *rec.Metrics.TokensGenerated > 0 {
			whPerToken = formatFloat(rec.Metrics.TotalEnergyWh / float64(*rec.Metrics.TokensGenerated))
		}
		if rec.Metrics.TokensPerSecond != nil {
			tokensPerSecond = formatFloat(*rec.Metrics.TokensPerSecond)
		}
		qualityScore := ""
		if rec.QualityMetrics != nil {
			qualityScore = formatFloat(rec.QualityMetrics.QualityScore)
		}

		row := []string{
			rec.ModelName,
			string(rec.Source),
			rec.Quantization,
			formatFloat(rec.Metrics.TotalEnergyWh),
			whPerToken,
			formatFloat(rec.Metrics.DurationSeconds),
			tokensPerSecond,
			qualityScore,
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
