package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// WriteRun appends a run to the ledger.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same run ID
// twice keeps the first row. Other constraint violations (e.g. an unknown
// outcome) still return errors.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) error {
	statsJSON, err := marshalJSON(rec.Stats)
	if err != nil {
		return fmt.Errorf("write run: marshal stats: %w", err)
	}
	summaryJSON, err := marshalNullable(rec.Summary)
	if err != nil {
		return fmt.Errorf("write run: marshal summary: %w", err)
	}

	var ksStat, ksP any
	if rec.KS != nil {
		ksStat, ksP = rec.KS.Statistic, rec.KS.PValue
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, outcome, target, proposal, k, n, seed, stats, summary, ks_statistic, ks_p_value, error, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Name,
		rec.Outcome,
		rec.Target,
		rec.Proposal,
		rec.K,
		rec.N,
		strconv.FormatUint(rec.Seed, 10),
		statsJSON,
		summaryJSON,
		ksStat,
		ksP,
		rec.Error,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}
