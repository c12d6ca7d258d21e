package intake

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// FeedCSV streams URLs from a CSV file into the ingestion pipeline.
// The URL column is located by a "url" header if one is present,
// otherwise the first column is used. Per-row failures are logged and
// the run continues; only a malformed stream aborts it.
//
// Returns the number of rows handed to the pipeline and the number that
// failed.
func FeedCSV(ctx context.Context, r io.Reader, ingester Ingester, logger *zap.Logger) (processed, failed int, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("intake")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	col := 0
	first := true

	for {
		if err := ctx.Err(); err != nil {
			return processed, failed, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return processed, failed, fmt.Errorf("reading csv: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		if first {
			first = false
			if idx := headerColumn(record); idx >= 0 {
				col = idx
				continue
			}
		}
		if col >= len(record) {
			logger.Warn("row missing url column", zap.Strings("record", record))
			failed++
			continue
		}

		url := strings.TrimSpace(record[col])
		if url == "" {
			continue
		}

		processed++
		if err := ingester.Ingest(ctx, url); err != nil {
			logger.Error("ingestion failed", zap.String("url", url), zap.Error(err))
			failed++
		}
	}

	return processed, failed, nil
}

// headerColumn returns the index of a "url" header cell, or -1 when the
// record is not a header row.
func headerColumn(record []string) int {
	for i, cell := range record {
		if strings.EqualFold(strings.TrimSpace(cell), "url") {
			return i
		}
	}
	return -1
}
